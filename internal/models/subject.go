package models

import "time"

// Subject is a course offered in one period. A nil TeacherID means the
// teacher is still pending.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id"`
	CareerID  string    `db:"career_id" json:"career_id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasTeacher reports whether a teacher is set.
func (s Subject) HasTeacher() bool {
	return s.TeacherID != nil && *s.TeacherID != ""
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	OwnerID   string
	TeacherID string
	CareerID  string
	Search    string
	Page      int
	PageSize  int
}
