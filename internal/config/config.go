package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the middleware server.
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Redis    RedisConfig
	GHL      GHLConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type AdminConfig struct {
	Secret string
}

type DatabaseConfig struct {
	// URL selects the Postgres backend when set. When empty the server
	// falls back to an embedded SQLite database at SQLitePath.
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	// URL is optional. Without it the rate limiter is not installed.
	URL               string
	RequestsPerMinute int
}

type GHLConfig struct {
	// ForwardTimeout bounds the single best-effort delivery attempt to a
	// subaccount's inbound webhook URL.
	ForwardTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PORT", 8080),
			Env:  envString("ENV", "development"),
		},
		Admin: AdminConfig{
			Secret: os.Getenv("ADMIN_SECRET"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			SQLitePath:      envString("SQLITE_PATH", "./database.sqlite"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:               os.Getenv("REDIS_URL"),
			RequestsPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		GHL: GHLConfig{
			ForwardTimeout: envDuration("GHL_FORWARD_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Production reports whether the server runs with production settings.
// Outside production the inbound forwarder skips TLS verification so local
// CRM stand-ins with self-signed certificates can be targeted.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

func (c *Config) validate() error {
	if c.Admin.Secret == "" {
		return fmt.Errorf("ADMIN_SECRET is required")
	}

	if c.Database.URL != "" &&
		!strings.HasPrefix(c.Database.URL, "postgres://") &&
		!strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must be a postgres:// URL, got %q", c.Database.URL)
	}
	if c.Database.URL == "" && c.Database.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when DATABASE_URL is not set")
	}

	if c.GHL.ForwardTimeout <= 0 {
		return fmt.Errorf("GHL_FORWARD_TIMEOUT must be positive, got %s", c.GHL.ForwardTimeout)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
