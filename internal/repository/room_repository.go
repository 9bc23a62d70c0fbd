package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
)

// RoomRepository manages the global room pool.
type RoomRepository struct {
	store
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB, opts ...Option) *RoomRepository {
	return &RoomRepository{store: newStore(db, opts...)}
}

// List returns every room in registration order. The auto-assigner relies on
// this order being stable.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, capacity, created_at, updated_at FROM rooms ORDER BY created_at ASC, id ASC`
	var rooms []models.Room
	err := r.withRetry(ctx, func(ctx context.Context) error {
		rooms = nil
		if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, name, capacity, created_at, updated_at FROM rooms WHERE id = $1`
	var room models.Room
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &room, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByName checks whether another room already uses the name.
func (r *RoomRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
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
		return false, fmt.Errorf("check room name: %w", err)
	}
	return true, nil
}

// Create inserts a room. Retried inserts with the same id update in place.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, name, capacity, created_at, updated_at)
		VALUES (:id, :name, :capacity, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, capacity = EXCLUDED.capacity, updated_at = EXCLUDED.updated_at`
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}
		return nil
	})
}

// Update modifies a room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET name = :name, capacity = :capacity, updated_at = :updated_at WHERE id = :id`
	return r.withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
			return fmt.Errorf("update room: %w", err)
		}
		return nil
	})
}

// Delete removes a room using exec when provided.
func (r *RoomRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	return r.withExec(ctx, exec, func(ctx context.Context, exec sqlx.ExtContext) error {
		if _, err := exec.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete room: %w", err)
		}
		return nil
	})
}
