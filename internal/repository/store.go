package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

// Option customises a repository.
type Option func(*store)

// WithRetryPolicy overrides the retry policy used for standalone statements.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *store) {
		s.policy = policy
	}
}

// store is embedded by every SQL repository.
type store struct {
	db     *sqlx.DB
	policy retry.Policy
}

func newStore(db *sqlx.DB, opts ...Option) store {
	s := store{db: db, policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// withRetry runs a standalone read or write through the retry policy.
func (s *store) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, s.policy, fn)
}

// withExec runs fn against exec when the caller supplied a transaction and
// otherwise against the pool with retries. Statements inside a transaction
// are never retried on their own; the transaction runner retries the whole
// unit instead.
func (s *store) withExec(ctx context.Context, exec sqlx.ExtContext, fn func(ctx context.Context, exec sqlx.ExtContext) error) error {
	if exec != nil {
		return fn(ctx, exec)
	}
	return s.withRetry(ctx, func(ctx context.Context) error {
		return fn(ctx, s.db)
	})
}

func tables(period models.PeriodID) (models.PeriodCollections, error) {
	c, err := period.Collections()
	if err != nil {
		return models.PeriodCollections{}, fmt.Errorf("resolve period tables: %w", err)
	}
	return c, nil
}

func normalizePage(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}
