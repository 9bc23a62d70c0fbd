package models

import (
	"errors"
	"fmt"
	"strings"
)

// PeriodID identifies one of the three academic periods of a year.
type PeriodID string

const (
	Period1 PeriodID = "1"
	Period2 PeriodID = "2"
	Period3 PeriodID = "3"
)

// ErrUnknownPeriod is returned when a period identifier is not recognised.
var ErrUnknownPeriod = errors.New("unknown period")

// PeriodCollections names the period-scoped tables.
type PeriodCollections struct {
	Subjects    string
	Groups      string
	Assignments string
}

var periodCollections = map[PeriodID]PeriodCollections{
	Period1: {Subjects: "subjects_p1", Groups: "groups_p1", Assignments: "assignments_p1"},
	Period2: {Subjects: "subjects_p2", Groups: "groups_p2", Assignments: "assignments_p2"},
	Period3: {Subjects: "subjects_p3", Groups: "groups_p3", Assignments: "assignments_p3"},
}

// Periods lists every period in order.
func Periods() []PeriodID {
	return []PeriodID{Period1, Period2, Period3}
}

// ParsePeriod validates a raw period identifier.
func ParsePeriod(raw string) (PeriodID, error) {
	period := PeriodID(strings.TrimSpace(raw))
	if _, ok := periodCollections[period]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, raw)
	}
	return period, nil
}

// Valid reports whether the period is one of the known periods.
func (p PeriodID) Valid() bool {
	_, ok := periodCollections[p]
	return ok
}

// Collections returns the table names for the period.
func (p PeriodID) Collections() (PeriodCollections, error) {
	collections, ok := periodCollections[p]
	if !ok {
		return PeriodCollections{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	return collections, nil
}
