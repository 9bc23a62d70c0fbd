package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/aularium-api/internal/models"
	"github.com/noah-isme/aularium-api/internal/service"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
	"github.com/noah-isme/aularium-api/pkg/logger"
)

type stubValidator struct {
	claims *models.JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newRouter(tokens TokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		auth := AuthFromContext(c)
		c.String(http.StatusOK, auth.UserID)
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	staff := &models.JWTClaims{UserID: "u1", Role: models.RoleStaff}
	r := newRouter(stubValidator{claims: staff})

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token abc").Code)

	rec := doGet(r, "Bearer abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	rejecting := newRouter(stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")})
	assert.Equal(t, http.StatusUnauthorized, doGet(rejecting, "Bearer abc").Code)

	broken := newRouter(stubValidator{err: errors.New("boom")})
	assert.Equal(t, http.StatusInternalServerError, doGet(broken, "Bearer abc").Code)
}

func TestRequirePrivileged(t *testing.T) {
	staff := newRouter(stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStaff}}, RequirePrivileged())
	assert.Equal(t, http.StatusForbidden, doGet(staff, "Bearer abc").Code)

	admin := newRouter(stubValidator{claims: &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}}, RequirePrivileged())
	assert.Equal(t, http.StatusOK, doGet(admin, "Bearer abc").Code)
}

func TestResponseMetaRecordsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var meta map[string]interface{}
	r.Use(WithResponseMeta())
	r.GET("/rooms", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = Meta(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, meta[MetaCacheHit])
	assert.Contains(t, meta, MetaProcessingTime)
	assert.NotContains(t, meta, MetaPeriod)
}

func TestResponseMetaEchoesPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var meta map[string]interface{}
	r.Use(WithResponseMeta())
	r.GET("/periods/:period/groups", func(c *gin.Context) {
		SetMeta(c, "count", 2)
		meta = Meta(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/periods/2/groups", nil))
	assert.Equal(t, "2", meta[MetaPeriod])
	assert.Equal(t, 2, meta["count"])
}

func TestMetaWithoutMiddlewareIsNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetCacheHit(c, true)
	assert.Nil(t, Meta(c))
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/periods/:period/groups", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/periods/1/groups", "/periods/2/groups", "/metrics", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "path" {
					counts[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(2), counts["/periods/:period/groups"])
	assert.Equal(t, float64(1), counts[unmatchedRoute])
	assert.NotContains(t, counts, "/metrics")
}

func TestJWTExposesCallerToRequestLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var logged string
	r.GET("/me", JWT(stubValidator{claims: &models.JWTClaims{UserID: "u-7", Role: models.RoleStaff}}), func(c *gin.Context) {
		logged = c.GetString(logger.UserIDKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "u-7", logged)
}
