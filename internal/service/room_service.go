package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

const (
	roomListCacheKey = "rooms:list"
	roomCachePattern = "rooms:*"
)

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type roomUnassigner interface {
	UnassignRoom(ctx context.Context, exec sqlx.ExtContext, period models.PeriodID, roomID string) error
}

// RoomRequest is the payload for creating or updating rooms.
type RoomRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// RoomService manages the global room pool.
type RoomService struct {
	repo        roomRepository
	assignments roomUnassigner
	tx          txRunner
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoomService constructs a RoomService. cache may be nil.
func NewRoomService(repo roomRepository, assignments roomUnassigner, tx txRunner, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, assignments: assignments, tx: tx, cache: cache, validator: validate, logger: logger}
}

// List returns every room in registration order. The result may come from
// the cache, so it must not feed scheduling decisions.
func (s *RoomService) List(ctx context.Context) ([]models.Room, bool, error) {
	var rooms []models.Room
	hit, err := s.cache.Remember(ctx, roomListCacheKey, &rooms, 0, func(ctx context.Context) error {
		list, err := s.repo.List(ctx)
		if err != nil {
			return internalError(err, "failed to list rooms")
		}
		if list == nil {
			list = []models.Room{}
		}
		rooms = list
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rooms, hit, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	return room, nil
}

// Create registers a room at the end of the pool order.
func (s *RoomService) Create(ctx context.Context, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid room payload")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	room := &models.Room{Name: name, Capacity: req.Capacity}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, internalError(err, "failed to create room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Update renames a room or changes its capacity. Current assignments stay in
// place; capacity only matters for future auto-assign runs.
func (s *RoomService) Update(ctx context.Context, id string, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid room payload")
	}
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	room.Name = name
	room.Capacity = req.Capacity
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, internalError(err, "failed to update room")
	}
	s.invalidate(ctx)
	return room, nil
}

// Delete removes a room and unassigns its sessions in every period.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "room")
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx sqlx.ExtContext) error {
		for _, period := range models.Periods() {
			if err := s.assignments.UnassignRoom(ctx, tx, period, id); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return internalError(err, "failed to delete room")
	}
	s.invalidate(ctx)
	s.logger.Info("room deleted", zap.String("room_id", id))
	return nil
}

func (s *RoomService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internalError(err, "failed to check room name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "room name already used")
	}
	return nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, roomCachePattern); err != nil {
		s.logger.Warn("failed to invalidate room cache", zap.Error(err))
	}
}
