package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WeeklyAvailability maps a day to the hour marks a teacher declared.
// A nil map means no availability was configured at all.
type WeeklyAvailability map[Weekday]map[ClockTime]bool

// Configured reports whether any availability map exists.
func (a WeeklyAvailability) Configured() bool {
	return a != nil
}

// Day returns the hour marks for a day and whether the day is configured.
func (a WeeklyAvailability) Day(day Weekday) (map[ClockTime]bool, bool) {
	if a == nil {
		return nil, false
	}
	hours, ok := a[day]
	return hours, ok
}

// Scan implements sql.Scanner for a nullable JSONB column.
func (a *WeeklyAvailability) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil || string(raw) == "null" {
		*a = nil
		return nil
	}
	decoded := WeeklyAvailability{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode availability: %w", err)
	}
	*a = decoded
	return nil
}

// Value implements driver.Valuer. A nil map is stored as NULL.
func (a WeeklyAvailability) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(map[Weekday]map[ClockTime]bool(a))
}

// Teacher is an instructor shared across every period.
type Teacher struct {
	ID           string             `db:"id" json:"id"`
	Name         string             `db:"name" json:"name"`
	Email        string             `db:"email" json:"email"`
	Availability WeeklyAvailability `db:"availability" json:"availability"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
