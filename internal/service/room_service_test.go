package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

type memCache struct {
	entries map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func newRoomFixture(t *testing.T) (*RoomService, *memStore, *memCache) {
	t.Helper()
	store := newMemStore()
	store.rooms = []models.Room{{ID: "r-1", Name: "A-101", Capacity: 30}}
	cache := &memCache{entries: map[string][]byte{}}
	svc := NewRoomService(fakeRooms{store}, fakeAssignments{memStore: store}, &fakeTx{}, NewCacheService(cache, NewMetricsService(), time.Minute, nil, true), nil, nil)
	return svc, store, cache
}

func TestRoomServiceListUsesCache(t *testing.T) {
	svc, store, cache := newRoomFixture(t)
	ctx := context.Background()

	rooms, cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, rooms, 1)
	assert.Contains(t, cache.entries, roomListCacheKey)

	store.rooms = append(store.rooms, models.Room{ID: "r-2", Name: "stale", Capacity: 10})
	rooms, cached, err = svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, rooms, 1)

	_, err = svc.Create(ctx, RoomRequest{Name: "B-201", Capacity: 50})
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, roomListCacheKey)

	rooms, cached, err = svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, rooms, 3)
}

func TestRoomServiceRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newRoomFixture(t)

	_, err := svc.Create(context.Background(), RoomRequest{Name: "a-101", Capacity: 10})
	requireAppError(t, err, appErrors.ErrConflict)

	_, err = svc.Create(context.Background(), RoomRequest{Name: "", Capacity: 10})
	requireAppError(t, err, appErrors.ErrValidation)

	room, err := svc.Update(context.Background(), "r-1", RoomRequest{Name: "A-101", Capacity: 35})
	require.NoError(t, err)
	assert.Equal(t, 35, room.Capacity)
}

func TestRoomServiceDeleteUnassignsEveryPeriod(t *testing.T) {
	svc, store, _ := newRoomFixture(t)
	store.assignments[models.Period1] = []models.Assignment{{ID: "a-1", RoomID: strPtr("r-1")}}
	store.assignments[models.Period3] = []models.Assignment{{ID: "a-2", RoomID: strPtr("r-1")}, {ID: "a-3", RoomID: strPtr("r-9")}}

	require.NoError(t, svc.Delete(context.Background(), "r-1"))
	assert.Empty(t, store.rooms)
	assert.Nil(t, store.assignments[models.Period1][0].RoomID)
	assert.Nil(t, store.assignments[models.Period3][0].RoomID)
	assert.Equal(t, "r-9", *store.assignments[models.Period3][1].RoomID)

	err := svc.Delete(context.Background(), "r-1")
	requireAppError(t, err, appErrors.ErrNotFound)
}
