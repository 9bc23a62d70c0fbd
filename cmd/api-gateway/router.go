package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/handler"
	"github.com/noah-isme/aularium-api/internal/middleware"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/config"
	"github.com/noah-isme/aularium-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/aularium-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/aularium-api/pkg/middleware/requestid"
)

type routerDeps struct {
	Auth        middleware.TokenValidator
	Metrics     *service.MetricsService
	MetricsH    *handler.MetricsHandler
	AuthH       *handler.AuthHandler
	TeacherH    *handler.TeacherHandler
	RoomH       *handler.RoomHandler
	SubjectH    *handler.SubjectHandler
	GroupH      *handler.GroupHandler
	AssignmentH *handler.AssignmentHandler
	GridH       *handler.GridHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", d.MetricsH.Health)
	r.GET("/ready", d.MetricsH.Ready)
	r.GET("/metrics", d.MetricsH.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", d.AuthH.Login)

	secured := api.Group("", middleware.JWT(d.Auth))
	secured.GET("/auth/me", d.AuthH.Me)

	privileged := middleware.RequirePrivileged()

	teachers := secured.Group("/teachers")
	teachers.GET("", d.TeacherH.List)
	teachers.GET("/:id", d.TeacherH.Get)
	teachers.POST("", privileged, d.TeacherH.Create)
	teachers.PUT("/:id", privileged, d.TeacherH.Update)
	teachers.PUT("/:id/availability", privileged, d.TeacherH.SetAvailability)
	teachers.DELETE("/:id", privileged, d.TeacherH.Delete)

	rooms := secured.Group("/rooms")
	rooms.GET("", d.RoomH.List)
	rooms.GET("/:id", d.RoomH.Get)
	rooms.POST("", privileged, d.RoomH.Create)
	rooms.PUT("/:id", privileged, d.RoomH.Update)
	rooms.DELETE("/:id", privileged, d.RoomH.Delete)

	period := secured.Group("/periods/:period")

	subjects := period.Group("/subjects")
	subjects.GET("", d.SubjectH.List)
	subjects.POST("", d.SubjectH.Create)
	subjects.GET("/:id", d.SubjectH.Get)
	subjects.PUT("/:id", d.SubjectH.Update)
	subjects.DELETE("/:id", d.SubjectH.Delete)

	groups := period.Group("/groups")
	groups.GET("", d.GroupH.List)
	groups.POST("", d.GroupH.Create)
	groups.POST("/check-slot", d.GroupH.CheckSlot)
	groups.GET("/:id", d.GroupH.Get)
	groups.PUT("/:id", d.GroupH.Update)
	groups.DELETE("/:id", d.GroupH.Delete)

	assignments := period.Group("/assignments")
	assignments.GET("", d.AssignmentH.List)
	assignments.GET("/integrity", d.AssignmentH.Integrity)
	assignments.PATCH("/:id/room", d.AssignmentH.Reassign)
	assignments.POST("/auto-assign", privileged, d.AssignmentH.AutoAssign)
	assignments.POST("/undo", privileged, d.AssignmentH.Undo)

	period.GET("/grid", d.GridH.Get)

	return r
}
