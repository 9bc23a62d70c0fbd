package scheduler

import "github.com/noah-isme/aularium-api/internal/models"

// Overlaps reports whether two slots share a day and their half-open ranges
// intersect. Identical slots and full containment both count.
func Overlaps(a, b models.TimeSlot) bool {
	return a.Day == b.Day && a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// IsDuplicate reports whether two slots are identical.
func IsDuplicate(a, b models.TimeSlot) bool {
	return a.Day == b.Day && a.StartTime == b.StartTime && a.EndTime == b.EndTime
}

// HourMarks lists the hour marks covered by [start, end), beginning at the
// hour that contains start: 10:00-12:00 covers 10:00 and 11:00, 10:30-11:30
// covers 10:00 and 11:00.
func HourMarks(start, end models.ClockTime) []models.ClockTime {
	if end <= start {
		return nil
	}
	var marks []models.ClockTime
	for mark := start.TruncateHour(); mark < end; mark += 60 {
		marks = append(marks, mark)
	}
	return marks
}

// ValidateSlot rejects unknown days, out of range times and empty ranges.
func ValidateSlot(slot models.TimeSlot) error {
	if !slot.Day.Valid() {
		return &models.ValidationError{Field: "day", Message: "unknown weekday " + string(slot.Day)}
	}
	if !slot.StartTime.Valid() {
		return &models.ValidationError{Field: "start_time", Message: "start time is outside the day"}
	}
	if slot.EndTime <= 0 || slot.EndTime > models.EndOfDay {
		return &models.ValidationError{Field: "end_time", Message: "end time is outside the day"}
	}
	if slot.EndTime <= slot.StartTime {
		return &models.ValidationError{Field: "end_time", Message: "end time must be after start time"}
	}
	return nil
}
