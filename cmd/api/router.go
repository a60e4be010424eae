package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	statsHandler "bookstore-reporting/internal/domains/stats/handler"
	"bookstore-reporting/internal/infrastructure/metrics"
	"bookstore-reporting/internal/shared/middleware"
	"bookstore-reporting/pkg/container"
	"bookstore-reporting/pkg/jwt"
)

// routerDeps là phần container mà router cần
type routerDeps struct {
	StatsHandler *statsHandler.StatsHandler
	Metrics      *metrics.Metrics
	MetricsPath  string
	JWTManager   *jwt.Manager
	AuthEnabled  bool
	CORSOrigins  []string
	Version      string
	Health       func(ctx context.Context) (map[string]string, bool)
}

func SetupRouter(c *container.Container) *gin.Engine {
	return newRouter(routerDeps{
		StatsHandler: c.StatsHandler,
		Metrics:      c.Metrics,
		MetricsPath:  c.Config.Metrics.Path,
		JWTManager:   c.JWTManager,
		AuthEnabled:  c.Config.Stats.AuthEnabled,
		CORSOrigins:  splitOrigins(c.Config.App.CORSOrigins),
		Version:      c.Config.App.Version,
		Health:       c.HealthStatus,
	})
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(d.CORSOrigins),
		middleware.Metrics(d.Metrics),
	)

	router.GET("/health", healthCheckHandler(d))
	if d.Metrics != nil {
		router.GET(d.MetricsPath, gin.WrapH(d.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	setupStatsRoutes(v1, d)

	return router
}

// ========================================
// STATS ROUTES (admin)
// ========================================
func setupStatsRoutes(v1 *gin.RouterGroup, d routerDeps) {
	group := v1.Group("")
	if d.AuthEnabled {
		group.Use(
			middleware.AuthMiddleware(d.JWTManager),
			middleware.AdminMiddleware(),
		)
	}
	d.StatsHandler.RegisterRoutes(group)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(d routerDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services, healthy := d.Health(ctx)

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   d.Version,
			"services":  services,
		})
	}
}

// splitOrigins tách CORS_ALLOWED_ORIGINS (comma separated)
func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
