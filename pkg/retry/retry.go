// Package retry runs store calls with bounded attempts and fixed or linear
// backoff. It is the single retry loop used by the repositories.
package retry

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/lib/pq"
)

// Backoff selects how the delay grows between attempts.
type Backoff string

const (
	BackoffFixed  Backoff = "fixed"
	BackoffLinear Backoff = "linear"
)

// Policy configures Do.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	Backoff   Backoff
	Retryable func(error) bool
}

// DefaultPolicy mirrors the few-seconds retry loop expected by clients:
// three attempts spaced 1s then 2s apart.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Delay: time.Second, Backoff: BackoffLinear}
}

// NoRetry runs the function exactly once.
func NoRetry() Policy {
	return Policy{Attempts: 1}
}

// ParseBackoff maps a config value onto a Backoff, defaulting to linear.
func ParseBackoff(raw string) Backoff {
	if Backoff(raw) == BackoffFixed {
		return BackoffFixed
	}
	return BackoffLinear
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func (p Policy) normalized() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.Backoff == "" {
		p.Backoff = BackoffLinear
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// DelayAfter returns the wait before the attempt following failed attempt n (1-based).
func (p Policy) DelayAfter(n int) time.Duration {
	p = p.normalized()
	if p.Backoff == BackoffFixed || n < 1 {
		return p.Delay
	}
	return p.Delay * time.Duration(n)
}

// Do invokes fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted, or ctx is done.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	p = p.normalized()
	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !p.Retryable(err) {
			return err
		}
		if attempt == p.Attempts {
			break
		}

		timer := time.NewTimer(p.DelayAfter(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	if p.Attempts == 1 {
		return err
	}
	return &ExhaustedError{Attempts: p.Attempts, Err: err}
}

// IsTransient reports whether err looks like a temporary store failure worth
// retrying: dropped connections, network errors, serialization failures and
// deadlocks.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, sql.ErrTxDone) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "08":
			return true
		case pqErr.Code == "40001", pqErr.Code == "40P01", pqErr.Code == "57P01":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
