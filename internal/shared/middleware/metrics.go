package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-reporting/internal/infrastructure/metrics"
)

// Metrics ghi nhận số request và latency theo route template (c.FullPath)
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
