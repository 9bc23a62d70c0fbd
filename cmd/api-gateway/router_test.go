package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/aularium-api/internal/handler"
	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	"github.com/noah-isme/aularium-api/pkg/config"
)

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*models.JWTClaims, error) {
	return nil, assert.AnError
}

func testRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	return newRouter(cfg, zap.NewNop(), routerDeps{
		Auth:     rejectAll{},
		Metrics:  metrics,
		MetricsH: handler.NewMetricsHandler(metrics),
	})
}

func TestRouterRegistersSchedulingRoutes(t *testing.T) {
	r := testRouter(config.EnvDevelopment)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/teachers",
		"PUT /api/v1/teachers/:id/availability",
		"DELETE /api/v1/rooms/:id",
		"POST /api/v1/periods/:period/groups",
		"POST /api/v1/periods/:period/groups/check-slot",
		"PATCH /api/v1/periods/:period/assignments/:id/room",
		"POST /api/v1/periods/:period/assignments/auto-assign",
		"POST /api/v1/periods/:period/assignments/undo",
		"GET /api/v1/periods/:period/assignments/integrity",
		"GET /api/v1/periods/:period/grid",
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /docs/*any",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	r := testRouter(config.EnvProduction)
	for _, route := range r.Routes() {
		assert.NotEqual(t, "/docs/*any", route.Path)
	}
}

func TestRouterRejectsMissingToken(t *testing.T) {
	r := testRouter(config.EnvDevelopment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/periods/1/groups", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
