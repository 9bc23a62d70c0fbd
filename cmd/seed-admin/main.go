package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/repository"
	"github.com/noah-isme/aularium-api/pkg/config"
	"github.com/noah-isme/aularium-api/pkg/database"
	"github.com/noah-isme/aularium-api/pkg/logger"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

// seed-admin creates or resets an administrator account.
func main() {
	email := flag.String("email", "", "administrator email")
	password := flag.String("password", "", "administrator password")
	name := flag.String("name", "Administrator", "display name")
	role := flag.String("role", string(models.RoleAdmin), "ADMIN or SUPERADMIN")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("email and a password of at least 8 characters are required")
	}
	userRole := models.UserRole(strings.ToUpper(*role))
	if !userRole.IsPrivileged() {
		log.Fatalf("role %q is not an administrator role", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	policy := retry.Policy{
		Attempts: cfg.Store.RetryAttempts,
		Delay:    cfg.Store.RetryDelay,
		Backoff:  retry.ParseBackoff(cfg.Store.RetryBackoff),
	}
	db, err := database.NewPostgres(cfg.Database, policy)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db, repository.WithRetryPolicy(policy))

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logr.Fatal("failed to hash password", zap.Error(err))
	}

	user := &models.User{Email: strings.ToLower(*email)}
	existing, err := users.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		user = existing
	case !errors.Is(err, sql.ErrNoRows):
		logr.Fatal("failed to look up user", zap.Error(err))
	}
	user.PasswordHash = string(hash)
	user.FullName = *name
	user.Role = userRole
	user.Active = true

	if err := users.Create(ctx, user); err != nil {
		logr.Fatal("failed to save user", zap.Error(err))
	}
	logr.Info("administrator ready", zap.String("user_id", user.ID), zap.String("email", user.Email), zap.String("role", string(user.Role)))
}
