package service

import (
	"context"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/scheduler"
)

type subjectReader interface {
	ListAll(ctx context.Context, period models.PeriodID) ([]models.Subject, error)
	FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Subject, error)
}

type groupReader interface {
	List(ctx context.Context, period models.PeriodID, filter models.GroupFilter) ([]models.Group, error)
	FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Group, error)
}

type teacherLookup interface {
	ListByIDs(ctx context.Context, ids []string) (map[string]models.Teacher, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type assignmentReader interface {
	List(ctx context.Context, period models.PeriodID, filter models.AssignmentFilter) ([]models.Assignment, error)
}

// periodSnapshot is the full state of one period read right before a
// scheduling decision. It is never cached and never scoped by owner.
type periodSnapshot struct {
	Subjects map[string]models.Subject
	Groups   []models.Group
	Teachers map[string]models.Teacher
}

// snapshotLoader reads period snapshots for the conflict checker and the
// room state for the assigner.
type snapshotLoader struct {
	subjects    subjectReader
	groups      groupReader
	teachers    teacherLookup
	rooms       roomLister
	assignments assignmentReader
}

func (l snapshotLoader) load(ctx context.Context, period models.PeriodID) (*periodSnapshot, error) {
	subjects, err := l.subjects.ListAll(ctx, period)
	if err != nil {
		return nil, internalError(err, "failed to load subjects")
	}
	groups, err := l.groups.List(ctx, period, models.GroupFilter{})
	if err != nil {
		return nil, internalError(err, "failed to load groups")
	}

	snap := &periodSnapshot{Subjects: make(map[string]models.Subject, len(subjects)), Groups: groups}
	seen := make(map[string]bool)
	var teacherIDs []string
	for _, subject := range subjects {
		snap.Subjects[subject.ID] = subject
		if subject.HasTeacher() && !seen[*subject.TeacherID] {
			seen[*subject.TeacherID] = true
			teacherIDs = append(teacherIDs, *subject.TeacherID)
		}
	}
	snap.Teachers, err = l.teachers.ListByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, internalError(err, "failed to load teachers")
	}
	return snap, nil
}

// withTeacher makes sure teacherID is present in the snapshot, loading it
// when a subject is about to switch to a teacher nobody else has.
func (l snapshotLoader) withTeacher(ctx context.Context, snap *periodSnapshot, teacherID string) error {
	if _, ok := snap.Teachers[teacherID]; ok {
		return nil
	}
	found, err := l.teachers.ListByIDs(ctx, []string{teacherID})
	if err != nil {
		return internalError(err, "failed to load teacher")
	}
	for id, t := range found {
		snap.Teachers[id] = t
	}
	return nil
}

// roomState returns the room pool in order and every assignment of the period.
func (l snapshotLoader) roomState(ctx context.Context, period models.PeriodID) ([]models.Room, []models.Assignment, error) {
	rooms, err := l.rooms.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to load rooms")
	}
	assignments, err := l.assignments.List(ctx, period, models.AssignmentFilter{})
	if err != nil {
		return nil, nil, internalError(err, "failed to load assignments")
	}
	return rooms, assignments, nil
}

func (s *periodSnapshot) checkContext(groupID, subjectID string, staged []models.TimeSlot, policy scheduler.AvailabilityPolicy) scheduler.CheckContext {
	return scheduler.CheckContext{
		GroupID:   groupID,
		SubjectID: subjectID,
		Staged:    staged,
		Subjects:  s.Subjects,
		Groups:    s.Groups,
		Teachers:  s.Teachers,
		Policy:    policy,
	}
}

func (s *periodSnapshot) studentCounts() map[string]int {
	counts := make(map[string]int, len(s.Groups))
	for _, g := range s.Groups {
		counts[g.ID] = g.StudentCount
	}
	return counts
}
