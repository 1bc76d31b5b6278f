package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type StoreDriver string

const (
	StoreDriverSQLite StoreDriver = "sqlite"
	StoreDriverMemory StoreDriver = "memory"
)

type Config struct {
	HTTPPort           string        `env:"HTTP_PORT"             envDefault:"8080"`
	StoreDriver        StoreDriver   `env:"STORE_DRIVER"          envDefault:"sqlite"`
	DBPath             string        `env:"DB_PATH"               envDefault:"./xpawto.db"`
	RedisAddr          string        `env:"REDIS_ADDR"            envDefault:"localhost:6379"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS"         envSeparator:","`
	AdminUsername      string        `env:"ADMIN_USERNAME"        envDefault:"admin"`
	AdminPassword      string        `env:"ADMIN_PASSWORD"        envDefault:"elitepets2025"`
	WhatsAppPhone      string        `env:"WHATSAPP_PHONE"        envDefault:"6285128048534"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"       envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"      envDefault:"10s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
	// SnapshotRefresh is how often the catalog snapshot is re-read in the
	// background. Zero disables the poller.
	SnapshotRefresh time.Duration `env:"SNAPSHOT_REFRESH_INTERVAL" envDefault:"5m"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case StoreDriverSQLite, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("parse env: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("parse env: REQUEST_TIMEOUT must be positive")
	}
	if cfg.SnapshotRefresh < 0 {
		return nil, fmt.Errorf("parse env: SNAPSHOT_REFRESH_INTERVAL must not be negative")
	}
	if cfg.WhatsAppPhone == "" {
		return nil, fmt.Errorf("parse env: WHATSAPP_PHONE must not be empty")
	}
	return &cfg, nil
}
