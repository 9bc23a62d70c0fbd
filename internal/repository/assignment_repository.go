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

const assignmentColumns = "id, group_id, room_id, subject_id, day, start_time, end_time, shift, created_at, updated_at"

// AssignmentRepository manages the period-scoped assignment tables.
type AssignmentRepository struct {
	store
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB, opts ...Option) *AssignmentRepository {
	return &AssignmentRepository{store: newStore(db, opts...)}
}

// List returns assignments of a period matching the filter, ordered by day
// and start time.
func (r *AssignmentRepository) List(ctx context.Context, period models.PeriodID, filter models.AssignmentFilter) ([]models.Assignment, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", assignmentColumns, t.Assignments)
	var conditions []string
	var args []interface{}
	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if filter.Unassigned {
		conditions = append(conditions, "room_id IS NULL")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	var assignments []models.Assignment
	err = r.withRetry(ctx, func(ctx context.Context) error {
		assignments = nil
		if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByID fetches an assignment of a period.
func (r *AssignmentRepository) FindByID(ctx context.Context, period models.PeriodID, id string) (*models.Assignment, error) {
	t, err := tables(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", assignmentColumns, t.Assignments)
	var assignment models.Assignment
	err = r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &assignment, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// InsertBatch upserts assignments by id. Ids are generated before the first
// attempt so a retried batch never duplicates rows.
func (r *AssignmentRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	t, err := tables(period)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
		assignments[i].UpdatedAt = now
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, group_id, room_id, subject_id, day, start_time, end_time, shift, created_at, updated_at)
		VALUES (:id, :group_id, :room_id, :subject_id, :day, :start_time, :end_time, :shift, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET room_id = EXCLUDED.room_id, day = EXCLUDED.day, start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time, shift = EXCLUDED.shift, updated_at = EXCLUDED.updated_at`, t.Assignments)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		for i := range assignments {
			if _, err := sqlx.NamedExecContext(ctx, exec, query, &assignments[i]); err != nil {
				return fmt.Errorf("insert assignment: %w", err)
			}
		}
		return nil
	})
}

// UpdateRoom sets or clears the room of one assignment.
func (r *AssignmentRepository) UpdateRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, id string, roomID *string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET room_id = $2, updated_at = $3 WHERE id = $1", t.Assignments)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, id, roomID, time.Now().UTC()); err != nil {
			return fmt.Errorf("update assignment room: %w", err)
		}
		return nil
	})
}

// ClearRooms unassigns every assignment of the period and reports how many changed.
func (r *AssignmentRepository) ClearRooms(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID) (int64, error) {
	t, err := tables(period)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("UPDATE %s SET room_id = NULL, updated_at = $1 WHERE room_id IS NOT NULL", t.Assignments)
	var affected int64
	err = r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		res, err := exec.ExecContext(ctx, query, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("clear assignment rooms: %w", err)
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

// UnassignRoom clears a room from every assignment of the period.
func (r *AssignmentRepository) UnassignRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, roomID string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET room_id = NULL, updated_at = $2 WHERE room_id = $1", t.Assignments)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, roomID, time.Now().UTC()); err != nil {
			return fmt.Errorf("unassign room: %w", err)
		}
		return nil
	})
}

// DeleteByGroup removes the assignments of a group.
func (r *AssignmentRepository) DeleteByGroup(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, groupID string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE group_id = $1", t.Assignments)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, groupID); err != nil {
			return fmt.Errorf("delete group assignments: %w", err)
		}
		return nil
	})
}

// DeleteBySubject removes the assignments of every group of a subject.
func (r *AssignmentRepository) DeleteBySubject(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, subjectID string) error {
	t, err := tables(period)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE subject_id = $1", t.Assignments)
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, query, subjectID); err != nil {
			return fmt.Errorf("delete subject assignments: %w", err)
		}
		return nil
	})
}
