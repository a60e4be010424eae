package container

import (
	"context"
	"fmt"
	"time"

	"bookstore-reporting/internal/config"
	infraCache "bookstore-reporting/internal/infrastructure/cache"
	"bookstore-reporting/internal/infrastructure/database"
	"bookstore-reporting/internal/infrastructure/metrics"
	"bookstore-reporting/pkg/cache"
	"bookstore-reporting/pkg/jwt"
	"bookstore-reporting/pkg/logger"

	bookRepo "bookstore-reporting/internal/domains/book/repository"
	orderRepo "bookstore-reporting/internal/domains/order/repository"
	statsHandler "bookstore-reporting/internal/domains/stats/handler"
	statsService "bookstore-reporting/internal/domains/stats/service"
	userRepo "bookstore-reporting/internal/domains/user/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config -> Infrastructure -> Repositories -> Services -> Handlers
type Container struct {
	// INFRASTRUCTURE LAYER
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil khi cache tắt hoặc Redis không kết nối được
	Cache      cache.Cache
	Metrics    *metrics.Metrics
	JWTManager *jwt.Manager

	// REPOSITORY LAYER (read-only)
	LedgerReader  orderRepo.LedgerReader
	CatalogReader bookRepo.CatalogReader
	UserCounter   userRepo.UserCounter

	// SERVICE LAYER
	StatsService statsService.StatsService

	// HANDLER LAYER
	StatsHandler *statsHandler.StatsHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph từ cfg
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("Initializing DI container", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(&cfg.Database)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: CACHE
	// ========================================
	// Redis failure không critical: log warning và chạy không cache
	if cfg.Stats.CacheTTL > 0 {
		rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			logger.Warn("Redis connection failed, report cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
			_ = rc.Close()
		} else {
			c.Redis = rc
			c.Cache = rc
		}
	}

	// ========================================
	// STEP 3: METRICS + AUTH
	// ========================================
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewMetrics()
	}
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret,
		jwt.WithIssuer(cfg.JWT.Issuer),
		jwt.WithLeeway(cfg.JWT.Leeway),
	)

	// ========================================
	// STEP 4..6: REPOSITORIES -> SERVICES -> HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", nil)
	return c, nil
}

// initRepositories khởi tạo các reader trên pgxpool
func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.LedgerReader = orderRepo.NewPostgresLedgerReader(pool, c.Config.Stats.CompletedSet())
	c.CatalogReader = bookRepo.NewPostgresRepository(pool)
	c.UserCounter = userRepo.NewPostgresRepository(pool)
}

// initServices khởi tạo stats service với dependencies tường minh
func (c *Container) initServices() {
	opts := []statsService.Option{
		statsService.WithMetrics(c.Metrics),
	}
	if c.Cache != nil {
		opts = append(opts, statsService.WithCache(c.Cache, c.Config.Stats.CacheTTL))
	}

	c.StatsService = statsService.NewStatsService(
		c.LedgerReader,
		c.CatalogReader,
		c.UserCounter,
		c.Config.Stats.CompletedSet(),
		opts...,
	)
}

// initHandlers khởi tạo HTTP handlers
func (c *Container) initHandlers() {
	c.StatsHandler = statsHandler.NewStatsHandler(c.StatsService, c.Config.Stats.DefaultTimezone)
}

// ========================================
// HEALTH + CLEANUP
// ========================================

// HealthStatus trả về trạng thái từng dependency ("ok", "disabled" hoặc lỗi)
func (c *Container) HealthStatus(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{}
	healthy := true

	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = err.Error()
		healthy = false
	} else {
		status["database"] = "ok"
	}

	// cache lỗi không làm service unhealthy
	switch {
	case c.Redis == nil:
		status["redis"] = "disabled"
	default:
		if err := c.Redis.HealthCheck(ctx); err != nil {
			status["redis"] = err.Error()
		} else {
			status["redis"] = "ok"
		}
	}

	return status, healthy
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		logger.Info("Database connections closed", nil)
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		} else {
			logger.Info("Redis connections closed", nil)
		}
	}
}
