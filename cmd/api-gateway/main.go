package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/aularium-api/api/swagger"
	"github.com/noah-isme/aularium-api/internal/handler"
	"github.com/noah-isme/aularium-api/internal/repository"
	"github.com/noah-isme/aularium-api/internal/scheduler"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/cache"
	"github.com/noah-isme/aularium-api/pkg/config"
	"github.com/noah-isme/aularium-api/pkg/database"
	"github.com/noah-isme/aularium-api/pkg/logger"
	"github.com/noah-isme/aularium-api/pkg/retry"
)

// @title Aularium API
// @version 1.0.0
// @description Classroom timetabling: conflict checks on group sessions and room assignment.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	storePolicy := retry.Policy{
		Attempts: cfg.Store.RetryAttempts,
		Delay:    cfg.Store.RetryDelay,
		Backoff:  retry.ParseBackoff(cfg.Store.RetryBackoff),
	}

	db, err := database.NewPostgres(cfg.Database, storePolicy)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	readiness := []handler.ReadinessCheck{{Name: "database", Check: db.PingContext}}

	var cacheRepo service.CacheRepository
	if cfg.RoomCache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis, storePolicy)
		if err != nil {
			logr.Warn("redis unavailable, room cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			redisCache := repository.NewCacheRepository(redisClient, logr)
			cacheRepo = redisCache
			readiness = append(readiness, handler.ReadinessCheck{Name: "redis", Check: redisCache.Ping})
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.RoomCache.TTL, logr, cfg.RoomCache.Enabled && cacheRepo != nil)

	opts := repository.WithRetryPolicy(storePolicy)
	users := repository.NewUserRepository(db, opts)
	teachers := repository.NewTeacherRepository(db, opts)
	rooms := repository.NewRoomRepository(db, opts)
	subjects := repository.NewSubjectRepository(db, opts)
	groups := repository.NewGroupRepository(db, opts)
	assignments := repository.NewAssignmentRepository(db, opts)
	tx := repository.NewTxRunner(db, storePolicy)

	notifications := service.NewNotificationService(service.NewLogSink(logr), service.NotificationConfig{
		Enabled: cfg.Notifications.Enabled,
		Workers: cfg.Notifications.Workers,
		Retry:   retry.Policy{Attempts: cfg.Notifications.Retries, Delay: time.Second, Backoff: retry.BackoffLinear},
	}, logr)
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	notifications.Start(notifyCtx)
	defer func() {
		stopNotify()
		notifications.Stop()
	}()

	policy := scheduler.ParsePolicy(cfg.Scheduler.UnconfiguredAvailability)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "aularium-api",
	})
	teacherSvc := service.NewTeacherService(teachers, subjects, tx, validate, logr)
	roomSvc := service.NewRoomService(rooms, assignments, tx, cacheSvc, validate, logr)
	subjectSvc := service.NewSubjectService(service.SubjectServiceDeps{
		Subjects:    subjects,
		Teachers:    teachers,
		Groups:      groups,
		Assignments: assignments,
		Tx:          tx,
		Policy:      policy,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr,
	})
	groupSvc := service.NewGroupService(service.GroupServiceDeps{
		Subjects:      subjects,
		Groups:        groups,
		Teachers:      teachers,
		Rooms:         rooms,
		Assignments:   assignments,
		Tx:            tx,
		Policy:        policy,
		Metrics:       metrics,
		Notifications: notifications,
		Validator:     validate,
		Logger:        logr,
	})
	assignmentSvc := service.NewAssignmentService(service.AssignmentServiceDeps{
		Subjects:      subjects,
		Groups:        groups,
		Rooms:         rooms,
		Assignments:   assignments,
		Tx:            tx,
		Metrics:       metrics,
		Notifications: notifications,
		Logger:        logr,
	})
	gridSvc := service.NewGridService(subjects, groups, rooms, assignments, nil, nil, logr)

	r := newRouter(cfg, logr, routerDeps{
		Auth:        authSvc,
		Metrics:     metrics,
		MetricsH:    handler.NewMetricsHandler(metrics, readiness...),
		AuthH:       handler.NewAuthHandler(authSvc),
		TeacherH:    handler.NewTeacherHandler(teacherSvc),
		RoomH:       handler.NewRoomHandler(roomSvc),
		SubjectH:    handler.NewSubjectHandler(subjectSvc),
		GroupH:      handler.NewGroupHandler(groupSvc),
		AssignmentH: handler.NewAssignmentHandler(assignmentSvc),
		GridH:       handler.NewGridHandler(gridSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "availability_policy", string(policy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
