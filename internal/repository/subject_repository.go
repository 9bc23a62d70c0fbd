package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
)

const subjectColumns = "id, name, teacher_id, career_id, owner_id, created_at, updated_at"

// SubjectRepository manages the period-scoped subject tables.
type SubjectRepository struct {
	store
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB, opts ...Option) *SubjectRepository {
	return &SubjectRepository{store: newStore(db, opts...)}
}

// List returns subjects of a period matching the filter with a total count.
func (r *SubjectRepository) List(ctx context.Context, period models.PeriodID, filter models.SubjectFilter) ([]models.Subject, int, error) {
	t, err := tables(period)
	if err != nil {
		return nil, 0, err
	}

	base := fmt.Sprintf("FROM %s WHERE 1=1", t.Subjects)
	var conditions []string
	var args []interface{}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.CareerID != "" {
		conditions = append(conditions, fmt.Sprintf("career_id = $%d", len(args)+1))
		args = append(args, filter.CareerID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	_, size, offset := normalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC, id ASC LIMIT %d OFFSET %d", subjectColumns, base, size, offset)
	var subjects []models.Subject
	var total int
	err = r.withRetry(ctx, func(ctx context.Context) error {
		subjects = nil
		if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
			return fmt.Errorf("count subjects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

// ListAll returns every subject of a period. Used to build checker snapshots.
func (r *SubjectRepository) ListAll(ctx context.Context, period models.PeriodID) ([]models.Subject, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at ASC, id ASC", subjectColumns, t.Subjects)
	var subjects []models.Subject
	err = r.withRetry(ctx, func(ctx context.Context) error {
		subjects = nil
		if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
			return fmt.Errorf("list all subjects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// FindByID fetches a subject of a period.
func (r *SubjectRepository) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Subject, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", subjectColumns, t.Subjects)
	var subject models.Subject
	err = r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &subject, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject. Retried inserts with the same id update in place.
func (r *SubjectRepository) Create(ctx context.Context, period models.PeriodID, subject *models.Subject) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (id, name, teacher_id, career_id, owner_id, created_at, updated_at)
		VALUES (:id, :name, :teacher_id, :career_id, :owner_id, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, teacher_id = EXCLUDED.teacher_id, career_id = EXCLUDED.career_id, updated_at = EXCLUDED.updated_at`, t.Subjects)
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
			return fmt.Errorf("create subject: %w", err)
		}
		return nil
	})
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, period models.PeriodID, subject *models.Subject) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	subject.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE %s SET name = :name, teacher_id = :teacher_id, career_id = :career_id, updated_at = :updated_at WHERE id = :id`, t.Subjects)
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
			return fmt.Errorf("update subject: %w", err)
		}
		return nil
	})
}

// Delete removes a subject using exec when provided.
func (r *SubjectRepository) Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Subjects)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("delete subject: %w", err)
		}
		return nil
	})
}

// ClearTeacher marks every subject taught by teacherID as pending.
func (r *SubjectRepository) ClearTeacher(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, teacherID string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET teacher_id = NULL, updated_at = $2 WHERE teacher_id = $1", t.Subjects)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, teacherID, time.Now().UTC()); err != nil {
			return fmt.Errorf("clear subject teacher: %w", err)
		}
		return nil
	})
}
