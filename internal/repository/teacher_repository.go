package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
)

const teacherColumns = "id, name, email, availability, created_at, updated_at"

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	store
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB, opts ...Option) *TeacherRepository {
	return &TeacherRepository{store: newStore(db, opts...)}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	allowedSorts := map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	_, size, offset := normalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, id ASC LIMIT %d OFFSET %d", teacherColumns, base, column, order, size, offset)
	var teachers []models.Teacher
	var total int
	err := r.withRetry(ctx, func(ctx context.Context) error {
		teachers = nil
		if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
			return fmt.Errorf("list teachers: %w", err)
		}
		if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
			return fmt.Errorf("count teachers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}

// ListByIDs returns the teachers with the given ids keyed by id.
func (r *TeacherRepository) ListByIDs(ctx context.Context, ids []string) (map[string]models.Teacher, error) {
	result := make(map[string]models.Teacher, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM teachers WHERE id IN (?)", teacherColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("build teacher lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var teachers []models.Teacher
	err = r.withRetry(ctx, func(ctx context.Context) error {
		teachers = nil
		if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
			return fmt.Errorf("lookup teachers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range teachers {
		result[t.ID] = t
	}
	return result, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &teacher, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsByEmail checks if another teacher uses the same email.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return true, nil
}

// Create inserts a teacher. Retried inserts with the same id update in place.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, name, email, availability, created_at, updated_at)
		VALUES (:id, :name, :email, :availability, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, availability = EXCLUDED.availability, updated_at = EXCLUDED.updated_at`
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
			return fmt.Errorf("create teacher: %w", err)
		}
		return nil
	})
}

// Update modifies an existing teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET name = :name, email = :email, availability = :availability, updated_at = :updated_at WHERE id = :id`
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
			return fmt.Errorf("update teacher: %w", err)
		}
		return nil
	})
}

// UpdateAvailability replaces the weekly availability map.
func (r *TeacherRepository) UpdateAvailability(ctx context.Context, id string, availability models.WeeklyAvailability) error {
	const query = `UPDATE teachers SET availability = $2, updated_at = $3 WHERE id = $1`
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, id, availability, time.Now().UTC()); err != nil {
			return fmt.Errorf("update teacher availability: %w", err)
		}
		return nil
	})
}

// Delete removes a teacher using exec when provided.
func (r *TeacherRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete teacher: %w", err)
		}
		return nil
	})
}
