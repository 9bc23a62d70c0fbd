package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/pkg/retry"
)

// TxRunner executes a unit of work inside one transaction, retrying the whole
// unit on transient failures.
type TxRunner struct {
	db     *sqlx.DB
	policy retry.Policy
}

// NewTxRunner builds a TxRunner.
func NewTxRunner(db *sqlx.DB, policy retry.Policy) *TxRunner {
	return &TxRunner{db: db, policy: policy}
}

// WithinTx begins a transaction, runs fn and commits. Any error from fn
// rolls the transaction back and is returned unchanged.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx sqlx.ExtContext) error) error {
	return retry.Do(ctx, r.policy, func(ctx context.Context) (err error) {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()

		if err = fn(ctx, tx); err != nil {
			return err
		}
		if err = tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}
