package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const namespace = "KPI"

type Config struct {
	Addr              string        `envconfig:"ADDR" default:":8080"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"8h"`
	Environment       string        `envconfig:"ENV" default:"development"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	MigrationsDir     string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RunMigrations     bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed           bool          `envconfig:"RUN_SEED" default:"true"`
	SeedAdminEmail    string        `envconfig:"SEED_ADMIN_EMAIL" default:"admin@example.com"`
	SeedAdminPassword string        `envconfig:"SEED_ADMIN_PASSWORD"`
	SeedAdminName     string        `envconfig:"SEED_ADMIN_NAME" default:"Administrator"`
	MaxBodyBytes      int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	AllowedOrigins    []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	MetricsEnabled    bool          `envconfig:"METRICS_ENABLED" default:"true"`
	ReminderInterval  time.Duration `envconfig:"REMINDER_INTERVAL" default:"24h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(namespace, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("KPI_DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if len(strings.TrimSpace(c.JWTSecret)) < 32 {
			return fmt.Errorf("KPI_JWT_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("KPI_SEED_ADMIN_PASSWORD must be set or KPI_RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("KPI_MAX_BODY_BYTES must be at least 1024")
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("KPI_REMINDER_INTERVAL must not be negative")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("KPI_TOKEN_TTL must be positive")
	}
	return nil
}

// SlogLevel parses LogLevel, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
