package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekday names a day of the week in upper case, e.g. MONDAY.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayIndex = map[Weekday]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
	Sunday:    7,
}

// Weekdays returns the week in display order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// SchoolDays returns the days shown on the weekly grid.
func SchoolDays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// ParseWeekday normalises and validates a day name.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	if !day.Valid() {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// Valid reports whether the day is known.
func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// Index returns 1 for MONDAY through 7 for SUNDAY, 0 when unknown.
func (d Weekday) Index() int {
	return weekdayIndex[d]
}

// UnmarshalText normalises the casing of incoming day names.
func (d *Weekday) UnmarshalText(text []byte) error {
	*d = Weekday(strings.ToUpper(strings.TrimSpace(string(text))))
	return nil
}

// ClockTime is a time of day expressed in minutes since midnight.
type ClockTime int

const minutesPerDay = 24 * 60

// EndOfDay is 24:00, only meaningful as an exclusive end time.
const EndOfDay ClockTime = minutesPerDay

// NewClockTime builds a ClockTime from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime accepts HH:MM or HH:MM:SS, plus 24:00 for the end of day.
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "24:00" || raw == "24:00:00" {
		return EndOfDay, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return NewClockTime(parsed.Hour(), parsed.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", raw)
}

// Hour returns the hour component.
func (t ClockTime) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t ClockTime) Minute() int { return int(t) % 60 }

// Valid reports whether the value lies within a single day.
func (t ClockTime) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// TruncateHour drops the minutes, 10:30 becomes 10:00.
func (t ClockTime) TruncateHour() ClockTime {
	return ClockTime(t.Hour() * 60)
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText renders HH:MM, which also makes ClockTime usable as a JSON map key.
func (t ClockTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses HH:MM or HH:MM:SS.
func (t *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIME and text columns.
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = NewClockTime(v.Hour(), v.Minute())
		return nil
	case []byte:
		return t.UnmarshalText(v)
	case string:
		return t.UnmarshalText([]byte(v))
	case int64:
		*t = ClockTime(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

// Value implements driver.Valuer.
func (t ClockTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// TimeSlot is one weekly recurring meeting block. EndTime is exclusive.
type TimeSlot struct {
	Day       Weekday   `json:"day" db:"day"`
	StartTime ClockTime `json:"start_time" db:"start_time"`
	EndTime   ClockTime `json:"end_time" db:"end_time"`
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, s.StartTime, s.EndTime)
}

// TimeSlots is a JSONB-backed list of slots.
type TimeSlots []TimeSlot

// Scan implements sql.Scanner.
func (s *TimeSlots) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	var slots []TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return fmt.Errorf("decode sessions: %w", err)
	}
	*s = slots
	return nil
}

// Value implements driver.Valuer.
func (s TimeSlots) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TimeSlot(s))
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported json column type")
	}
}
