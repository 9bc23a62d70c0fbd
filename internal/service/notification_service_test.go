package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

type recordingSink struct {
	mu       sync.Mutex
	failures int
	received []Notification
	done     chan struct{}
}

func (s *recordingSink) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("sink unavailable")
	}
	s.received = append(s.received, n)
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	return nil
}

func TestNotificationServiceDeliversWithRetry(t *testing.T) {
	done := make(chan struct{})
	sink := &recordingSink{failures: 1, done: done}
	svc := NewNotificationService(sink, NotificationConfig{
		Enabled: true,
		Workers: 1,
		Retry:   retry.Policy{Attempts: 3, Delay: time.Millisecond, Backoff: retry.BackoffFixed},
	}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Publish(context.Background(), models.AuthContext{UserID: "u1"}, models.Period1, NotificationAutoAssign, map[string]int{"assigned": 2})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.received, 1)
	assert.Equal(t, NotificationAutoAssign, sink.received[0].Type)
	assert.Equal(t, "u1", sink.received[0].ActorID)
	assert.Equal(t, models.Period1, sink.received[0].Period)
}

func TestNotificationServiceDisabledIsNoop(t *testing.T) {
	sink := &recordingSink{}
	svc := NewNotificationService(sink, NotificationConfig{Enabled: false}, nil)
	svc.Start(context.Background())
	svc.Publish(context.Background(), models.AuthContext{}, models.Period1, NotificationAutoAssign, nil)
	svc.Stop()

	assert.Empty(t, sink.received)

	var nilSvc *NotificationService
	nilSvc.Publish(context.Background(), models.AuthContext{}, models.Period1, NotificationAutoAssign, nil)
}
