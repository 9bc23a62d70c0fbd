package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/aularium-api/pkg/config"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

// NewPostgres returns a configured PostgreSQL client. The initial ping is
// retried with the store policy so the API survives a database that is still
// starting up.
func NewPostgres(cfg config.DatabaseConfig, policy retry.Policy) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	policy.Retryable = func(error) bool { return true }
	if err := retry.Do(ctx, policy, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
