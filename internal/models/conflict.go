package models

import (
	"fmt"
	"strings"
)

// ConflictKind classifies a scheduling conflict.
type ConflictKind string

const (
	ConflictDuplicate    ConflictKind = "DUPLICATE"
	ConflictOverlap      ConflictKind = "OVERLAP"
	ConflictSubject      ConflictKind = "SUBJECT"
	ConflictTeacher      ConflictKind = "TEACHER"
	ConflictAvailability ConflictKind = "AVAILABILITY"
)

// ConflictEntry is one existing session that clashes with a candidate.
type ConflictEntry struct {
	GroupID     string    `json:"group_id,omitempty"`
	GroupNumber string    `json:"group_number,omitempty"`
	SubjectID   string    `json:"subject_id,omitempty"`
	SubjectName string    `json:"subject_name,omitempty"`
	Day         Weekday   `json:"day"`
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`
}

// Conflict is the structured result of a rejected candidate slot.
type Conflict struct {
	Kind             ConflictKind    `json:"kind"`
	Message          string          `json:"message"`
	Candidate        TimeSlot        `json:"candidate"`
	SessionIndex     *int            `json:"session_index,omitempty"`
	Entries          []ConflictEntry `json:"entries,omitempty"`
	TeacherID        string          `json:"teacher_id,omitempty"`
	UnconfiguredDay  bool            `json:"unconfigured_day,omitempty"`
	UnavailableHours []ClockTime     `json:"unavailable_hours,omitempty"`
}

// Error implements the error interface.
func (c *Conflict) Error() string {
	if c == nil {
		return "<nil>"
	}
	return c.Message
}

// RoomOccupiedError rejects a manual move into a busy room.
type RoomOccupiedError struct {
	AssignmentID string       `json:"assignment_id"`
	RoomID       string       `json:"room_id"`
	RoomName     string       `json:"room_name"`
	Blocking     []Assignment `json:"blocking"`
}

// Error implements the error interface.
func (e *RoomOccupiedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Blocking))
	for _, b := range e.Blocking {
		parts = append(parts, b.Slot().String())
	}
	return fmt.Sprintf("room %s is occupied at %s", e.RoomName, strings.Join(parts, ", "))
}

// ValidationError reports malformed scheduling input.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
