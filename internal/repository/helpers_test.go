package repository

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aularium-api/pkg/retry"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func fastRetry() retry.Policy {
	return retry.Policy{Attempts: 3, Delay: time.Millisecond, Backoff: retry.BackoffFixed}
}

func connectionFailure() error {
	return &pq.Error{Code: "08006", Message: "connection failure"}
}

func serializationFailure() error {
	return &pq.Error{Code: "40001", Message: "could not serialize access"}
}
