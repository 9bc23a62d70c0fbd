package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/scheduler"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

type subjectRepository interface {
	subjectReader
	List(ctx context.Context, period models.PeriodID, filter models.SubjectFilter) ([]models.Subject, int, error)
	Create(ctx context.Context, period models.PeriodID, subject *models.Subject) error
	Update(ctx context.Context, period models.PeriodID, subject *models.Subject) error
	Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error
}

type subjectCascade interface {
	DeleteBySubject(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, subjectID string) error
}

type teacherFinder interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type teacherSource interface {
	teacherFinder
	teacherLookup
}

type groupCascadeReader interface {
	groupReader
	subjectCascade
}

// SubjectRequest is the payload for creating or updating subjects. A null
// teacher_id leaves the teacher pending.
type SubjectRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,min=1"`
	CareerID  string  `json:"career_id" validate:"required,max=100"`
}

// SubjectService manages the subjects of each period.
type SubjectService struct {
	repo        subjectRepository
	teachers    teacherFinder
	groups      subjectCascade
	assignments subjectCascade
	snapshots   snapshotLoader
	tx          txRunner
	checker     *scheduler.Checker
	policy      scheduler.AvailabilityPolicy
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// SubjectServiceDeps groups the collaborators of SubjectService.
type SubjectServiceDeps struct {
	Subjects    subjectRepository
	Teachers    teacherSource
	Groups      groupCascadeReader
	Assignments subjectCascade
	Tx          txRunner
	Policy      scheduler.AvailabilityPolicy
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(deps SubjectServiceDeps) *SubjectService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &SubjectService{
		repo:        deps.Subjects,
		teachers:    deps.Teachers,
		groups:      deps.Groups,
		assignments: deps.Assignments,
		snapshots:   snapshotLoader{subjects: deps.Subjects, groups: deps.Groups, teachers: deps.Teachers},
		tx:          deps.Tx,
		checker:     scheduler.NewChecker().Only(models.ConflictTeacher, models.ConflictAvailability),
		policy:      deps.Policy,
		metrics:     deps.Metrics,
		validator:   deps.Validator,
		logger:      deps.Logger,
	}
}

// List returns the subjects visible to the caller.
func (s *SubjectService) List(ctx context.Context, auth models.AuthContext, period models.PeriodID, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	if err := checkPeriod(period); err != nil {
		return nil, nil, err
	}
	if !auth.IsPrivileged() {
		filter.OwnerID = auth.UserID
	}
	subjects, total, err := s.repo.List(ctx, period, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list subjects")
	}
	return subjects, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a subject the caller may access.
func (s *SubjectService) Get(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Subject, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	return s.load(ctx, auth, period, id)
}

// Create registers a subject owned by the caller.
func (s *SubjectService) Create(ctx context.Context, auth models.AuthContext, period models.PeriodID, req SubjectRequest) (*models.Subject, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}
	if err := s.ensureTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
		CareerID:  strings.TrimSpace(req.CareerID),
		OwnerID:   auth.UserID,
	}
	if err := s.repo.Create(ctx, period, subject); err != nil {
		return nil, internalError(err, "failed to create subject")
	}
	return subject, nil
}

// Update edits a subject. Switching to a different teacher re-validates every
// session of the subject against that teacher's schedule and availability.
func (s *SubjectService) Update(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string, req SubjectRequest) (*models.Subject, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}
	subject, err := s.load(ctx, auth, period, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	updated := *subject
	updated.Name = strings.TrimSpace(req.Name)
	updated.CareerID = strings.TrimSpace(req.CareerID)
	updated.TeacherID = req.TeacherID

	if updated.HasTeacher() && !sameTeacher(subject.TeacherID, updated.TeacherID) {
		if err := s.revalidateTeacher(ctx, period, updated); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, period, &updated); err != nil {
		return nil, internalError(err, "failed to update subject")
	}
	return &updated, nil
}

// Delete removes a subject together with its groups and their assignments.
func (s *SubjectService) Delete(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) error {
	if err := checkPeriod(period); err != nil {
		return err
	}
	if _, err := s.load(ctx, auth, period, id); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		if err := s.assignments.DeleteBySubject(ctx, tx, period, id); err != nil {
			return err
		}
		if err := s.groups.DeleteBySubject(ctx, tx, period, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, period, id)
	})
	if err != nil {
		return internalError(err, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("period", string(period)), zap.String("subject_id", id))
	return nil
}

func (s *SubjectService) load(ctx context.Context, auth models.AuthContext, period models.PeriodID, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, period, id)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	if !auth.CanAccess(subject.OwnerID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject belongs to another user")
	}
	return subject, nil
}

func (s *SubjectService) ensureTeacher(ctx context.Context, teacherID *string) error {
	if teacherID == nil {
		return nil
	}
	if _, err := s.teachers.FindByID(ctx, *teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "teacher_id does not reference a teacher")
		}
		return internalError(err, "failed to load teacher")
	}
	return nil
}

func (s *SubjectService) revalidateTeacher(ctx context.Context, period models.PeriodID, updated models.Subject) error {
	snap, err := s.snapshots.load(ctx, period)
	if err != nil {
		return err
	}
	if err := s.snapshots.withTeacher(ctx, snap, *updated.TeacherID); err != nil {
		return err
	}
	snap.Subjects[updated.ID] = updated

	for _, group := range snap.Groups {
		if group.SubjectID != updated.ID {
			continue
		}
		checkCtx := snap.checkContext(group.ID, updated.ID, nil, s.policy)
		for i, session := range group.Sessions {
			if conflict := s.checker.Check(session, checkCtx); conflict != nil {
				index := i
				conflict.SessionIndex = &index
				s.metrics.RecordConflict(conflict.Kind)
				return conflictError(conflict)
			}
		}
	}
	return nil
}

func sameTeacher(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
