package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/pkg/jobs"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

// Notification types.
const (
	NotificationAutoAssign        = "auto_assign.completed"
	NotificationPendingAssign     = "auto_assign.pending_completed"
	NotificationConflictRejected  = "schedule.conflict_rejected"
	NotificationAssignmentsUndone = "assignments.undone"
	NotificationRoomReassigned    = "assignment.room_changed"
)

// Notification is a structured scheduling outcome handed to a sink.
type Notification struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Period    models.PeriodID `json:"period"`
	ActorID   string          `json:"actor_id"`
	Payload   interface{}     `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Notifier delivers notifications somewhere outside the service.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogSink writes notifications as structured log lines.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds the default sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Notify implements Notifier.
func (s *LogSink) Notify(_ context.Context, n Notification) error {
	s.logger.Info("notification",
		zap.String("notification_id", n.ID),
		zap.String("type", n.Type),
		zap.String("period", string(n.Period)),
		zap.String("actor_id", n.ActorID),
		zap.Any("payload", n.Payload),
	)
	return nil
}

// NotificationConfig tunes the dispatch queue.
type NotificationConfig struct {
	Enabled bool
	Workers int
	Retry   retry.Policy
}

// NotificationService queues notifications for asynchronous delivery so the
// request path never waits on the sink.
type NotificationService struct {
	queue   *jobs.Queue
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService wires a queue in front of sink.
func NewNotificationService(sink Notifier, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		n, ok := job.Payload.(Notification)
		if !ok {
			logger.Warn("dropping malformed notification job", zap.String("job_id", job.ID))
			return nil
		}
		return sink.Notify(ctx, n)
	}
	queue := jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers: cfg.Workers,
		Retry:   cfg.Retry,
		Logger:  logger,
	})
	return &NotificationService{queue: queue, enabled: cfg.Enabled, logger: logger}
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *NotificationService) Stop() {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Stop()
}

// Publish enqueues a notification. Delivery failures never reach the caller.
func (s *NotificationService) Publish(_ context.Context, auth models.AuthContext, period models.PeriodID, kind string, payload interface{}) {
	if s == nil || !s.enabled {
		return
	}
	n := Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Period:    period,
		ActorID:   auth.UserID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.queue.Enqueue(jobs.Job{ID: n.ID, Type: n.Type, Payload: n}); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("type", kind), zap.Error(err))
	}
}
