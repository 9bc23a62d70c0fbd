package models

import "time"

// Assignment pairs one session of a group with a room. A nil RoomID means
// the session is unassigned.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	GroupID   string    `db:"group_id" json:"group_id"`
	RoomID    *string   `db:"room_id" json:"room_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime ClockTime `db:"start_time" json:"start_time"`
	EndTime   ClockTime `db:"end_time" json:"end_time"`
	Shift     Shift     `db:"shift" json:"shift"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Slot returns the time slot the assignment occupies.
func (a Assignment) Slot() TimeSlot {
	return TimeSlot{Day: a.Day, StartTime: a.StartTime, EndTime: a.EndTime}
}

// Assigned reports whether a room is set.
func (a Assignment) Assigned() bool {
	return a.RoomID != nil && *a.RoomID != ""
}

// InRoom reports whether the assignment is placed in the given room.
func (a Assignment) InRoom(roomID string) bool {
	return a.Assigned() && *a.RoomID == roomID
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	GroupID    string
	SubjectID  string
	RoomID     string
	Day        Weekday
	Shift      Shift
	Unassigned bool
}

// DoubleBooking reports two assignments that share a room at overlapping times.
type DoubleBooking struct {
	RoomID string     `json:"room_id"`
	Day    Weekday    `json:"day"`
	First  Assignment `json:"first"`
	Second Assignment `json:"second"`
}
