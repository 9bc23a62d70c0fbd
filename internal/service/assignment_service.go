package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/scheduler"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

type assignmentRepository interface {
	assignmentReader
	FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Assignment, error)
	UpdateRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string, roomID *string) error
	ClearRooms(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID) (int64, error)
}

type roomFinder interface {
	roomLister
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// ReassignRequest moves an assignment. A null room_id unassigns it.
type ReassignRequest struct {
	RoomID *string `json:"room_id"`
}

// ReassignResult describes a successful manual move.
type ReassignResult struct {
	Assignment      models.Assignment `json:"assignment"`
	PreviousRoomID  *string           `json:"previous_room_id"`
	PreviousRoom    *models.Room      `json:"previous_room,omitempty"`
	NewRoom         *models.Room      `json:"new_room,omitempty"`
	CapacityWarning bool              `json:"capacity_warning"`
	Message         string            `json:"message"`
}

// BulkAssignResult reports a period-wide auto-assign run.
type BulkAssignResult struct {
	Assignments []models.Assignment `json:"assignments"`
	Assigned    int                 `json:"assigned"`
	Unassigned  int                 `json:"unassigned"`
}

// UndoResult reports how many assignments lost their room.
type UndoResult struct {
	Cleared int64 `json:"cleared"`
}

// IntegrityReport lists double bookings of a period.
type IntegrityReport struct {
	Period         models.PeriodID        `json:"period"`
	Checked        int                    `json:"checked"`
	Healthy        bool                   `json:"healthy"`
	DoubleBookings []models.DoubleBooking `json:"double_bookings"`
}

// AssignmentServiceDeps groups the collaborators of AssignmentService.
type AssignmentServiceDeps struct {
	Subjects      subjectReader
	Groups        groupReader
	Rooms         roomFinder
	Assignments   assignmentRepository
	Tx            txRunner
	Metrics       *MetricsService
	Notifications notificationPublisher
	Logger        *zap.Logger
}

// AssignmentService handles room decisions made outside group edits: manual
// moves, period-wide auto-assign and undo, and integrity checks.
type AssignmentService struct {
	subjects      subjectReader
	groups        groupReader
	rooms         roomFinder
	assignments   assignmentRepository
	tx            txRunner
	metrics       *MetricsService
	notifications notificationPublisher
	logger        *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(deps AssignmentServiceDeps) *AssignmentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifications == nil {
		deps.Notifications = (*NotificationService)(nil)
	}
	return &AssignmentService{
		subjects:      deps.Subjects,
		groups:        deps.Groups,
		rooms:         deps.Rooms,
		assignments:   deps.Assignments,
		tx:            deps.Tx,
		metrics:       deps.Metrics,
		notifications: deps.Notifications,
		logger:        deps.Logger,
	}
}

// List returns assignments of a period. Non-privileged callers only see the
// assignments of their own subjects.
func (s *AssignmentService) List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.AssignmentFilter) ([]models.Assignment, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.List(ctx, period, filter)
	if err != nil {
		return nil, internalError(err, "failed to list assignments")
	}
	if auth.IsPrivileged() {
		return assignments, nil
	}

	owned, err := s.ownedSubjects(ctx, auth, period)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if owned[a.SubjectID] {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// Reassign moves one assignment to another room or clears its room. The move
// is checked against every assignment of the period read just before the
// write.
func (s *AssignmentService) Reassign(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req ReassignRequest) (*ReassignResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	moving, err := s.assignments.FindByID(ctx, period, id)
	if err != nil {
		return nil, lookupError(err, "assignment")
	}
	subject, err := s.subjects.FindByID(ctx, period, moving.SubjectID)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	if !auth.CanAccess(subject.OwnerID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another user")
	}

	var target *models.Room
	if req.RoomID != nil && *req.RoomID != "" {
		target, err = s.rooms.FindByID(ctx, *req.RoomID)
		if err != nil {
			return nil, lookupError(err, "room")
		}
	}

	previous, err := s.previousRoom(ctx, moving)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.FindByID(ctx, period, moving.GroupID)
	if err != nil {
		return nil, lookupError(err, "group")
	}
	all, err := s.assignments.List(ctx, period, models.AssignmentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to load assignments")
	}

	outcome, err := scheduler.Reassign(*moving, target, all, group.StudentCount)
	if err != nil {
		var occupied *models.RoomOccupiedError
		if errors.As(err, &occupied) {
			s.metrics.RecordReassignment(OutcomeOccupied)
			return nil, roomOccupiedError(occupied)
		}
		return nil, internalError(err, "failed to reassign room")
	}

	if err := s.assignments.UpdateRoom(ctx, nil, period, id, outcome.Assignment.RoomID); err != nil {
		return nil, internalError(err, "failed to update assignment room")
	}

	switch {
	case outcome.NewRoom == nil:
		s.metrics.RecordReassignment(OutcomeCleared)
	case outcome.CapacityWarning:
		s.metrics.RecordReassignment(OutcomeOverCap)
	default:
		s.metrics.RecordReassignment(OutcomeMoved)
	}
	result := &ReassignResult{
		Assignment:      outcome.Assignment,
		PreviousRoomID:  outcome.PreviousRoomID,
		PreviousRoom:    previous,
		NewRoom:         outcome.NewRoom,
		CapacityWarning: outcome.CapacityWarning,
		Message:         reassignMessage(previous, outcome.NewRoom, outcome.CapacityWarning),
	}
	s.notifications.Publish(ctx, auth, period, NotificationRoomReassigned, result)
	return result, nil
}

// previousRoom resolves the room an assignment currently holds. A room that
// no longer exists is reported as nil rather than failing the move.
func (s *AssignmentService) previousRoom(ctx context.Context, moving *models.Assignment) (*models.Room, error) {
	if moving.RoomID == nil || *moving.RoomID == "" {
		return nil, nil
	}
	room, err := s.rooms.FindByID(ctx, *moving.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("assignment references a missing room", zap.String("assignment_id", moving.ID), zap.String("room_id", *moving.RoomID))
			return nil, nil
		}
		return nil, internalError(err, "failed to load current room")
	}
	return room, nil
}

func reassignMessage(previous, next *models.Room, overCapacity bool) string {
	var msg string
	switch {
	case next == nil && previous == nil:
		msg = "session has no room"
	case next == nil:
		msg = fmt.Sprintf("session removed from %s", previous.Name)
	case previous == nil:
		msg = fmt.Sprintf("session assigned to %s", next.Name)
	default:
		msg = fmt.Sprintf("session moved from %s to %s", previous.Name, next.Name)
	}
	if overCapacity {
		msg += fmt.Sprintf(" (group exceeds capacity %d)", next.Capacity)
	}
	return msg
}

// AutoAssignPending gives rooms to every unassigned assignment of the period
// using the same first-fit rule as group creation.
func (s *AssignmentService) AutoAssignPending(ctx context.Context, auth models.AuthContext, period models.PeriodID) (*BulkAssignResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if !auth.IsPrivileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "auto-assign requires an administrator")
	}

	started := time.Now()
	var result scheduler.AutoAssignResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		rooms, err := s.rooms.List(ctx)
		if err != nil {
			return err
		}
		all, err := s.assignments.List(ctx, period, models.AssignmentFilter{})
		if err != nil {
			return err
		}
		groups, err := s.groups.List(ctx, period, models.GroupFilter{})
		if err != nil {
			return err
		}
		counts := make(map[string]int, len(groups))
		for _, g := range groups {
			counts[g.ID] = g.StudentCount
		}
		pending := make([]models.Assignment, 0)
		for _, a := range all {
			if !a.Assigned() {
				pending = append(pending, a)
			}
		}

		result = scheduler.AssignPending(pending, counts, rooms, all)
		for _, a := range result.Assignments {
			if err := s.assignments.UpdateRoom(ctx, tx, period, a.ID, a.RoomID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to auto-assign rooms")
	}

	s.metrics.RecordAutoAssign(result.Assigned, result.Unassigned, time.Since(started))
	summary := autoAssignSummary{Assigned: result.Assigned, Unassigned: result.Unassigned}
	s.notifications.Publish(ctx, auth, period, NotificationPendingAssign, summary)
	s.logger.Info("pending assignments processed",
		zap.String("period", string(period)),
		zap.Int("assigned", result.Assigned),
		zap.Int("unassigned", result.Unassigned),
	)
	assignments := result.Assignments
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return &BulkAssignResult{Assignments: assignments, Assigned: result.Assigned, Unassigned: result.Unassigned}, nil
}

// UndoAll clears the room of every assignment in the period.
func (s *AssignmentService) UndoAll(ctx context.Context, auth models.AuthContext, period models.PeriodID) (*UndoResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if !auth.IsPrivileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "undo requires an administrator")
	}
	cleared, err := s.assignments.ClearRooms(ctx, nil, period)
	if err != nil {
		return nil, internalError(err, "failed to clear assignments")
	}
	result := &UndoResult{Cleared: cleared}
	s.notifications.Publish(ctx, auth, period, NotificationAssignmentsUndone, result)
	return result, nil
}

// Integrity reports any room double booking in the period.
func (s *AssignmentService) Integrity(ctx context.Context, period models.PeriodID) (*IntegrityReport, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	all, err := s.assignments.List(ctx, period, models.AssignmentFilter{})
	if err != nil {
		return nil, internalError(err, "failed to load assignments")
	}
	bookings := scheduler.FindDoubleBookings(all)
	if bookings == nil {
		bookings = []models.DoubleBooking{}
	}
	if len(bookings) > 0 {
		s.logger.Error("room double booking detected", zap.String("period", string(period)), zap.Int("pairs", len(bookings)))
	}
	return &IntegrityReport{Period: period, Checked: len(all), Healthy: len(bookings) == 0, DoubleBookings: bookings}, nil
}

func (s *AssignmentService) ownedSubjects(ctx context.Context, auth models.AuthContext, period models.PeriodID) (map[string]bool, error) {
	subjects, err := s.subjects.ListAll(ctx, period)
	if err != nil {
		return nil, internalError(err, "failed to load subjects")
	}
	owned := make(map[string]bool)
	for _, subject := range subjects {
		if auth.CanAccess(subject.OwnerID) {
			owned[subject.ID] = true
		}
	}
	return owned, nil
}
