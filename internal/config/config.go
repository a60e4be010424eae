package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	ordermodel "bookstore-reporting/internal/domains/order/model"
	"bookstore-reporting/internal/domains/stats/period"
	"bookstore-reporting/internal/infrastructure/database"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Đọc từ environment variables (và file CONFIG_FILE nếu có) qua viper
type Config struct {
	App      AppConfig         `mapstructure:",squash"`
	Database database.DBConfig `mapstructure:",squash"`
	Redis    RedisConfig       `mapstructure:",squash"`
	JWT      JWTConfig         `mapstructure:",squash"`
	Stats    StatsConfig       `mapstructure:",squash"`
	Metrics  MetricsConfig     `mapstructure:",squash"`
}

type AppConfig struct {
	Name        string `mapstructure:"APP_NAME"`
	Environment string `mapstructure:"APP_ENV"` // development, staging, production
	Port        string `mapstructure:"APP_PORT"`
	Version     string `mapstructure:"APP_VERSION"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"` // comma separated, "*" cho phép tất cả
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"JWT_SECRET"`
	Issuer string        `mapstructure:"JWT_ISSUER"` // rỗng = không kiểm tra iss
	Leeway time.Duration `mapstructure:"JWT_LEEWAY"`
}

// StatsConfig cấu hình module báo cáo
type StatsConfig struct {
	CompletedStatuses string        `mapstructure:"STATS_COMPLETED_STATUSES"` // comma separated
	DefaultTimezone   string        `mapstructure:"STATS_DEFAULT_TIMEZONE"`
	CacheTTL          time.Duration `mapstructure:"STATS_CACHE_TTL"` // 0 = tắt cache
	AuthEnabled       bool          `mapstructure:"STATS_AUTH_ENABLED"`
}

// CompletedSet parses CompletedStatuses into a status set.
func (s StatsConfig) CompletedSet() ordermodel.StatusSet {
	return ordermodel.NewStatusSet(strings.Split(s.CompletedStatuses, ",")...)
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"METRICS_ENABLED"`
	Path    string `mapstructure:"METRICS_PATH"`
}

// Load đọc config từ environment variables (ưu tiên) và file tùy chọn
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through the given viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("APP_NAME", "Bookstore Reporting")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Database
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "bookstore")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "bookstore_dev")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", "5m")
	v.SetDefault("DB_MAX_CONN_IDLE_TIME", "1m")
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("DB_RETRY_DELAY", "1s")
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")

	// Redis
	v.SetDefault("REDIS_HOST", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	// JWT
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_LEEWAY", "30s")

	// Stats
	v.SetDefault("STATS_COMPLETED_STATUSES", strings.Join(ordermodel.DefaultCompletedStatuses, ","))
	v.SetDefault("STATS_DEFAULT_TIMEZONE", period.DefaultTimezone)
	v.SetDefault("STATS_CACHE_TTL", "60s")
	v.SetDefault("STATS_AUTH_ENABLED", true)

	// Metrics
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if len(c.Stats.CompletedSet()) == 0 {
		return fmt.Errorf("STATS_COMPLETED_STATUSES must list at least one status")
	}
	for status := range c.Stats.CompletedSet() {
		if !ordermodel.IsKnownStatus(status) {
			return fmt.Errorf("STATS_COMPLETED_STATUSES: unknown order status %q", status)
		}
	}

	if _, err := period.LoadLocation(c.Stats.DefaultTimezone); err != nil {
		return fmt.Errorf("STATS_DEFAULT_TIMEZONE: %w", err)
	}

	if c.Stats.CacheTTL < 0 {
		return fmt.Errorf("STATS_CACHE_TTL must not be negative")
	}

	if c.Database.MaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.Stats.AuthEnabled && c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
