package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aularium-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics observes every request under its route template so period and id
// parameters do not multiply label values. Scrapes of the metrics endpoint
// itself are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.FullPath() == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
