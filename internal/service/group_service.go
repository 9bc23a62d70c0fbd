package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/scheduler"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

type groupRepository interface {
	groupReader
	Upsert(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, group *models.Group) error
	Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error
}

type groupAssignmentStore interface {
	assignmentReader
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, assignments []models.Assignment) error
	DeleteByGroup(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, groupID string) error
}

type notificationPublisher interface {
	Publish(ctx context.Context, auth models.AuthContext, period models.PeriodID, kind string, payload interface{})
}

// CreateGroupRequest is the payload for adding a group to a subject.
type CreateGroupRequest struct {
	SubjectID    string            `json:"subject_id" validate:"required"`
	Number       string            `json:"number" validate:"required,max=20"`
	StudentCount int               `json:"student_count" validate:"gte=0"`
	Shift        models.Shift      `json:"shift" validate:"required"`
	Sessions     []models.TimeSlot `json:"sessions" validate:"max=42"`
}

// UpdateGroupRequest replaces the editable fields of a group. The sessions
// list is the complete new schedule.
type UpdateGroupRequest struct {
	Number       string            `json:"number" validate:"required,max=20"`
	StudentCount int               `json:"student_count" validate:"gte=0"`
	Shift        models.Shift      `json:"shift" validate:"required"`
	Sessions     []models.TimeSlot `json:"sessions" validate:"max=42"`
}

// SlotCheckRequest asks whether one more session can be staged for a group.
type SlotCheckRequest struct {
	GroupID   string            `json:"group_id"`
	SubjectID string            `json:"subject_id" validate:"required"`
	Staged    []models.TimeSlot `json:"staged"`
	Candidate models.TimeSlot   `json:"candidate"`
}

// SlotCheckResult reports the first conflict of a candidate, if any.
type SlotCheckResult struct {
	Available bool             `json:"available"`
	Conflict  *models.Conflict `json:"conflict,omitempty"`
}

// GroupResult is a persisted group with the room decisions made for it.
type GroupResult struct {
	Group       models.Group        `json:"group"`
	Assignments []models.Assignment `json:"assignments"`
	Assigned    int                 `json:"assigned"`
	Unassigned  int                 `json:"unassigned"`
}

// GroupServiceDeps groups the collaborators of GroupService.
type GroupServiceDeps struct {
	Subjects      subjectReader
	Groups        groupRepository
	Teachers      teacherLookup
	Rooms         roomLister
	Assignments   groupAssignmentStore
	Tx            txRunner
	Policy        scheduler.AvailabilityPolicy
	Metrics       *MetricsService
	Notifications notificationPublisher
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// GroupService creates and edits groups. Every write validates the sessions
// with the conflict checker against a fresh period snapshot and then lets
// the auto-assigner pick rooms before the group and its assignments are
// committed together.
type GroupService struct {
	subjects      subjectReader
	groups        groupRepository
	assignments   groupAssignmentStore
	snapshots     snapshotLoader
	tx            txRunner
	checker       *scheduler.Checker
	policy        scheduler.AvailabilityPolicy
	metrics       *MetricsService
	notifications notificationPublisher
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(deps GroupServiceDeps) *GroupService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifications == nil {
		deps.Notifications = (*NotificationService)(nil)
	}
	return &GroupService{
		subjects:    deps.Subjects,
		groups:      deps.Groups,
		assignments: deps.Assignments,
		snapshots: snapshotLoader{
			subjects:    deps.Subjects,
			groups:      deps.Groups,
			teachers:    deps.Teachers,
			rooms:       deps.Rooms,
			assignments: deps.Assignments,
		},
		tx:            deps.Tx,
		checker:       scheduler.NewChecker(),
		policy:        deps.Policy,
		metrics:       deps.Metrics,
		notifications: deps.Notifications,
		validator:     deps.Validator,
		logger:        deps.Logger,
	}
}

// List returns the groups visible to the caller.
func (s *GroupService) List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.GroupFilter) ([]models.Group, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if !auth.IsPrivileged() {
		filter.OwnerID = auth.UserID
	}
	groups, err := s.groups.List(ctx, period, filter)
	if err != nil {
		return nil, internalError(err, "failed to list groups")
	}
	return groups, nil
}

// Get returns a group the caller may access.
func (s *GroupService) Get(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Group, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	group, _, err := s.loadGroup(ctx, auth, period, id)
	return group, err
}

// CheckSlot runs the conflict checker for one candidate session without
// writing anything.
func (s *GroupService) CheckSlot(ctx context.Context, auth models.AuthContext, period models.PeriodID, req SlotCheckRequest) (*SlotCheckResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid slot check payload")
	}
	if err := validateSlots(append([]models.TimeSlot{req.Candidate}, req.Staged...)); err != nil {
		return nil, err
	}
	subject, err := s.loadSubject(ctx, auth, period, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if req.GroupID != "" {
		group, _, err := s.loadGroup(ctx, auth, period, req.GroupID)
		if err != nil {
			return nil, err
		}
		if group.SubjectID != subject.ID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "group does not belong to subject")
		}
	}

	snap, err := s.snapshots.load(ctx, period)
	if err != nil {
		return nil, err
	}
	conflict := s.checker.Check(req.Candidate, snap.checkContext(req.GroupID, subject.ID, req.Staged, s.policy))
	if conflict != nil {
		s.metrics.RecordConflict(conflict.Kind)
		return &SlotCheckResult{Available: false, Conflict: conflict}, nil
	}
	return &SlotCheckResult{Available: true}, nil
}

// Create validates the sessions, picks rooms and persists the group and its
// assignments in one transaction.
func (s *GroupService) Create(ctx context.Context, auth models.AuthContext, period models.PeriodID, req CreateGroupRequest) (*GroupResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid group payload")
	}
	shift, err := parseShift(req.Shift)
	if err != nil {
		return nil, err
	}
	if err := validateSlots(req.Sessions); err != nil {
		return nil, err
	}
	subject, err := s.loadSubject(ctx, auth, period, req.SubjectID)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:           uuid.NewString(),
		SubjectID:    subject.ID,
		Number:       strings.TrimSpace(req.Number),
		StudentCount: req.StudentCount,
		Shift:        shift,
		Sessions:     models.TimeSlots(req.Sessions),
	}
	return s.save(ctx, auth, period, group, "")
}

// Update replaces a group's fields and sessions. Its assignments are
// recreated from scratch, so manual room choices of the group are lost.
func (s *GroupService) Update(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req UpdateGroupRequest) (*GroupResult, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid group payload")
	}
	shift, err := parseShift(req.Shift)
	if err != nil {
		return nil, err
	}
	if err := validateSlots(req.Sessions); err != nil {
		return nil, err
	}
	current, _, err := s.loadGroup(ctx, auth, period, id)
	if err != nil {
		return nil, err
	}

	group := *current
	group.Number = strings.TrimSpace(req.Number)
	group.StudentCount = req.StudentCount
	group.Shift = shift
	group.Sessions = models.TimeSlots(req.Sessions)
	return s.save(ctx, auth, period, &group, id)
}

// Delete removes a group and its assignments.
func (s *GroupService) Delete(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) error {
	if err := checkPeriod(period); err != nil {
		return err
	}
	if _, _, err := s.loadGroup(ctx, auth, period, id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		if err := s.assignments.DeleteByGroup(ctx, tx, period, id); err != nil {
			return err
		}
		return s.groups.Delete(ctx, tx, period, id)
	})
	if err != nil {
		return internalError(err, "failed to delete group")
	}
	return nil
}

// save runs the checker and the assigner for group. editingID is empty for
// new groups.
func (s *GroupService) save(ctx context.Context, auth models.AuthContext, period models.PeriodID, group *models.Group, editingID string) (*GroupResult, error) {
	snap, err := s.snapshots.load(ctx, period)
	if err != nil {
		return nil, err
	}
	sessions := []models.TimeSlot(group.Sessions)
	if conflict := s.checker.CheckSessions(sessions, snap.checkContext(editingID, group.SubjectID, nil, s.policy)); conflict != nil {
		s.metrics.RecordConflict(conflict.Kind)
		s.notifications.Publish(ctx, auth, period, NotificationConflictRejected, conflict)
		s.logger.Info("group sessions rejected",
			zap.String("period", string(period)),
			zap.String("subject_id", group.SubjectID),
			zap.String("kind", string(conflict.Kind)),
		)
		return nil, conflictError(conflict)
	}

	started := time.Now()
	var result scheduler.AutoAssignResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		rooms, existing, err := s.snapshots.roomState(ctx, period)
		if err != nil {
			return err
		}
		if editingID != "" {
			existing = scheduler.WithoutGroup(existing, editingID)
			if err := s.assignments.DeleteByGroup(ctx, tx, period, editingID); err != nil {
				return err
			}
		}
		result = scheduler.AutoAssign(scheduler.AutoAssignInput{
			GroupID:      group.ID,
			SubjectID:    group.SubjectID,
			Shift:        group.Shift,
			StudentCount: group.StudentCount,
			Sessions:     sessions,
		}, rooms, existing)

		if err := s.groups.Upsert(ctx, tx, period, group); err != nil {
			return err
		}
		return s.assignments.InsertBatch(ctx, tx, period, result.Assignments)
	})
	if err != nil {
		return nil, passThrough(err, "failed to save group")
	}

	s.metrics.RecordAutoAssign(result.Assigned, result.Unassigned, time.Since(started))
	out := &GroupResult{Group: *group, Assignments: result.Assignments, Assigned: result.Assigned, Unassigned: result.Unassigned}
	s.notifications.Publish(ctx, auth, period, NotificationAutoAssign, autoAssignSummary{GroupID: group.ID, Assigned: out.Assigned, Unassigned: out.Unassigned})
	return out, nil
}

func (s *GroupService) loadSubject(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, period, id)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	if !auth.CanAccess(subject.OwnerID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject belongs to another user")
	}
	return subject, nil
}

func (s *GroupService) loadGroup(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Group, *models.Subject, error) {
	group, err := s.groups.FindByID(ctx, period, id)
	if err != nil {
		return nil, nil, lookupError(err, "group")
	}
	subject, err := s.loadSubject(ctx, auth, period, group.SubjectID)
	if err != nil {
		return nil, nil, err
	}
	return group, subject, nil
}

type autoAssignSummary struct {
	GroupID    string `json:"group_id,omitempty"`
	Assigned   int    `json:"assigned"`
	Unassigned int    `json:"unassigned"`
}

func parseShift(raw models.Shift) (models.Shift, error) {
	shift, err := models.ParseShift(string(raw))
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return shift, nil
}

func validateSlots(slots []models.TimeSlot) error {
	for _, slot := range slots {
		if err := scheduler.ValidateSlot(slot); err != nil {
			var invalid *models.ValidationError
			if errors.As(err, &invalid) {
				return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, invalid.Error()), invalid)
			}
			return validationError(err, "invalid session")
		}
	}
	return nil
}
