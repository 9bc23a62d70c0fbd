package models

// GridEntry is one assignment rendered on the weekly grid.
type GridEntry struct {
	AssignmentID string    `json:"assignment_id"`
	GroupID      string    `json:"group_id"`
	GroupNumber  string    `json:"group_number"`
	SubjectID    string    `json:"subject_id"`
	SubjectName  string    `json:"subject_name"`
	StudentCount int       `json:"student_count"`
	Day          Weekday   `json:"day"`
	StartTime    ClockTime `json:"start_time"`
	EndTime      ClockTime `json:"end_time"`
	OverCapacity bool      `json:"over_capacity,omitempty"`
}

// GridRow holds the entries of one hour row, keyed by day.
type GridRow struct {
	Hour  ClockTime               `json:"hour"`
	Cells map[Weekday][]GridEntry `json:"cells"`
}

// RoomGrid is a single room's week.
type RoomGrid struct {
	RoomID   string    `json:"room_id"`
	RoomName string    `json:"room_name"`
	Capacity int       `json:"capacity"`
	Rows     []GridRow `json:"rows"`
}

// WeeklyGrid is the rooms by days by hours read model of one period and shift.
type WeeklyGrid struct {
	Period     PeriodID    `json:"period"`
	Shift      Shift       `json:"shift"`
	Days       []Weekday   `json:"days"`
	Hours      []ClockTime `json:"hours"`
	Rooms      []RoomGrid  `json:"rooms"`
	Unassigned []GridEntry `json:"unassigned"`
}
