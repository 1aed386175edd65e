package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backend selectors.
const (
	StoreBackendSnapshot = "snapshot"
	StoreBackendPostgres = "postgres"
)

// Config holds the environment driven configuration for the service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"clipstream"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CLIPSTREAM_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Record Store Backend Selection
	StoreBackend string `env:"STORE_BACKEND" envDefault:"snapshot"` // Options: "snapshot" or "postgres"
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"data.json"`

	// Media Configuration
	VideoDir             string `env:"VIDEO_DIR" envDefault:"video"`
	ThumbnailDir         string `env:"THUMBNAIL_DIR" envDefault:"thumbnails"`
	MaxUploadBytes       int64  `env:"MAX_UPLOAD_BYTES" envDefault:"1073741824"`
	CleanupMediaOnDelete bool   `env:"CLEANUP_MEDIA_ON_DELETE" envDefault:"false"`

	// Database (postgres backend only)
	DBPostgresqlDSN string        `env:"DB_POSTGRESQL_DSN"`
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case "", StoreBackendSnapshot:
		cfg.StoreBackend = StoreBackendSnapshot
	case StoreBackendPostgres:
		if strings.TrimSpace(cfg.DBPostgresqlDSN) == "" {
			return nil, fmt.Errorf("DB_POSTGRESQL_DSN is required when STORE_BACKEND is %q", StoreBackendPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 1 << 30
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsSnapshotStore returns true if the file-backed record store is configured.
func (c *Config) IsSnapshotStore() bool {
	return c.StoreBackend == StoreBackendSnapshot
}

// IsPostgresStore returns true if the postgres record store is configured.
func (c *Config) IsPostgresStore() bool {
	return c.StoreBackend == StoreBackendPostgres
}
