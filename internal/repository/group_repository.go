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

const groupColumns = "g.id, g.subject_id, g.number, g.student_count, g.shift, g.sessions, g.created_at, g.updated_at"

// GroupRepository manages the period-scoped group tables.
type GroupRepository struct {
	store
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB, opts ...Option) *GroupRepository {
	return &GroupRepository{store: newStore(db, opts...)}
}

// List returns groups of a period. OwnerID restricts the result to groups
// whose subject belongs to that user.
func (r *GroupRepository) List(ctx context.Context, period models.PeriodID, filter models.GroupFilter) ([]models.Group, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s g", groupColumns, t.Groups)
	var conditions []string
	var args []interface{}
	if filter.OwnerID != "" {
		query += fmt.Sprintf(" JOIN %s s ON s.id = g.subject_id", t.Subjects)
		conditions = append(conditions, fmt.Sprintf("s.owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("g.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("g.shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY g.created_at ASC, g.id ASC"

	var groups []models.Group
	err = r.withRetry(ctx, func(ctx context.Context) error {
		groups = nil
		if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// FindByID fetches a group of a period.
func (r *GroupRepository) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Group, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s g WHERE g.id = $1", groupColumns, t.Groups)
	var group models.Group
	err = r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &group, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Upsert inserts or replaces a group using exec when provided.
func (r *GroupRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, group *models.Group) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (id, subject_id, number, student_count, shift, sessions, created_at, updated_at)
		VALUES (:id, :subject_id, :number, :student_count, :shift, :sessions, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET subject_id = EXCLUDED.subject_id, number = EXCLUDED.number, student_count = EXCLUDED.student_count,
		shift = EXCLUDED.shift, sessions = EXCLUDED.sessions, updated_at = EXCLUDED.updated_at`, t.Groups)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := sqlx.NamedExecContext(ctx, exec, query, group); err != nil {
			return fmt.Errorf("upsert group: %w", err)
		}
		return nil
	})
}

// Delete removes a group using exec when provided.
func (r *GroupRepository) Delete(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Groups)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}

// DeleteBySubject removes every group of a subject.
func (r *GroupRepository) DeleteBySubject(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, subjectID string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE subject_id = $1", t.Groups)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, subjectID); err != nil {
			return fmt.Errorf("delete subject groups: %w", err)
		}
		return nil
	})
}
