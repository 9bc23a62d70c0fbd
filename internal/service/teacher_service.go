package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	UpdateAvailability(ctx context.Context, id string, availability models.WeeklyAvailability) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type subjectTeacherClearer interface {
	ClearTeacher(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, teacherID string) error
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	Name         string                    `json:"name" validate:"required,max=200"`
	Email        string                    `json:"email" validate:"required,email"`
	Availability models.WeeklyAvailability `json:"availability"`
}

// UpdateTeacherRequest represents payload for updating teachers.
type UpdateTeacherRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	subjects  subjectTeacherClearer
	tx        txRunner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, subjects subjectTeacherClearer, tx txRunner, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, subjects: subjects, tx: tx, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list teachers")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher")
	}
	return teacher, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	if err := validateAvailability(req.Availability); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Availability: req.Availability,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to create teacher")
	}
	return teacher, nil
}

// Update modifies an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}

	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}

	teacher.Name = strings.TrimSpace(req.Name)
	teacher.Email = strings.TrimSpace(req.Email)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to update teacher")
	}
	return teacher, nil
}

// SetAvailability replaces the weekly availability of a teacher. A nil map
// marks the teacher as not configured. Existing sessions are not re-checked.
func (s *TeacherService) SetAvailability(ctx context.Context, id string, availability models.WeeklyAvailability) (*models.Teacher, error) {
	if err := validateAvailability(availability); err != nil {
		return nil, err
	}
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher")
	}
	if err := s.repo.UpdateAvailability(ctx, id, availability); err != nil {
		return nil, internalError(err, "failed to update availability")
	}
	teacher.Availability = availability
	return teacher, nil
}

// Delete removes a teacher. Subjects taught by the teacher in every period
// fall back to a pending teacher in the same transaction.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "teacher")
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		for _, period := range models.Periods() {
			if err := s.subjects.ClearTeacher(ctx, tx, period, id); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return internalError(err, "failed to delete teacher")
	}
	s.logger.Info("teacher deleted", zap.String("teacher_id", id))
	return nil
}

func (s *TeacherService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByEmail(ctx, strings.TrimSpace(email), excludeID)
	if err != nil {
		return internalError(err, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already used")
	}
	return nil
}

// validateAvailability accepts known days and whole-hour marks only.
func validateAvailability(availability models.WeeklyAvailability) error {
	for day, hours := range availability {
		if !day.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q in availability", day))
		}
		for hour := range hours {
			if !hour.Valid() || hour.Minute() != 0 {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability hour %s on %s must be a whole hour", hour, day))
			}
		}
	}
	return nil
}
