package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/pkg/retry"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "notify"}))

	select {
	case job := <-done:
		assert.Equal(t, "1", job.ID)
		assert.Equal(t, 1, job.Attempt)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesUntilAttemptsExhausted(t *testing.T) {
	var calls int32
	finished := make(chan struct{})
	q := NewQueue("test", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) == 3 {
			close(finished)
		}
		return errors.New("sink down")
	}, QueueConfig{Retry: retry.Policy{Attempts: 3, Delay: time.Millisecond, Backoff: retry.BackoffFixed}})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("job not retried")
	}
	time.Sleep(20 * time.Millisecond)
	q.Stop()
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})

	err := q.Enqueue(Job{ID: "1"})
	assert.ErrorIs(t, err, ErrQueueStopped)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{ID: "2"}), ErrQueueStopped)
}
