package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db, fastRetry())

	boom := errors.New("rejected")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := runner.WithinTx(context.Background(), func(ctx context.Context, tx sqlx.ExtContext) error {
		if _, err := tx.ExecContext(ctx, "UPDATE rooms SET capacity = 1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRetriesWholeUnit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db, fastRetry())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO groups_p1").WillReturnError(serializationFailure())
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO groups_p1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	calls := 0
	err := runner.WithinTx(context.Background(), func(ctx context.Context, tx sqlx.ExtContext) error {
		calls++
		_, err := tx.ExecContext(ctx, "INSERT INTO groups_p1 (id) VALUES ('g1')")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
