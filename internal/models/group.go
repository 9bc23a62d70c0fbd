package models

import (
	"fmt"
	"strings"
	"time"
)

// Shift is a coarse partition of the school day.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
)

type shiftWindow struct {
	start ClockTime
	end   ClockTime
}

var shiftWindows = map[Shift]shiftWindow{
	ShiftMorning:   {start: NewClockTime(7, 0), end: NewClockTime(14, 0)},
	ShiftAfternoon: {start: NewClockTime(14, 0), end: NewClockTime(22, 0)},
}

// ParseShift normalises and validates a shift name.
func ParseShift(raw string) (Shift, error) {
	shift := Shift(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := shiftWindows[shift]; !ok {
		return "", fmt.Errorf("unknown shift %q", raw)
	}
	return shift, nil
}

// Valid reports whether the shift is known.
func (s Shift) Valid() bool {
	_, ok := shiftWindows[s]
	return ok
}

// Window returns the displayed hour range of the shift.
func (s Shift) Window() (ClockTime, ClockTime) {
	w := shiftWindows[s]
	return w.start, w.end
}

// Group is a section of a subject with its own weekly sessions.
type Group struct {
	ID           string    `db:"id" json:"id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	Number       string    `db:"number" json:"number"`
	StudentCount int       `db:"student_count" json:"student_count"`
	Shift        Shift     `db:"shift" json:"shift"`
	Sessions     TimeSlots `db:"sessions" json:"sessions"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GroupFilter captures supported filters for listing groups.
type GroupFilter struct {
	SubjectID string
	OwnerID   string
	Shift     Shift
}
