// Package database manages the PostgreSQL connection pool used by the
// postgres document backend.
package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Config holds database connection configuration.
type Config struct {
	// URL, when set, is used as-is and the discrete fields are ignored.
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds how long Connect keeps retrying an unreachable server.
	ConnectTimeout time.Duration
}

// ConfigFromEnv creates a Config from DB_* environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		URL:      os.Getenv("DB_URL"),
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		User:     getEnvOrDefault("DB_USER", "gymmate"),
		Password: getEnvOrDefault("DB_PASSWORD", "localdev"),
		Database: getEnvOrDefault("DB_NAME", "gymmate"),
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnvOrDefault("DB_PORT", "5432")); err != nil {
		return Config{}, fmt.Errorf("DB_PORT: %w", err)
	}
	if cfg.MaxConns, err = strconv.Atoi(getEnvOrDefault("DB_MAX_CONNS", "10")); err != nil {
		return Config{}, fmt.Errorf("DB_MAX_CONNS: %w", err)
	}
	if cfg.MinConns, err = strconv.Atoi(getEnvOrDefault("DB_MIN_CONNS", "1")); err != nil {
		return Config{}, fmt.Errorf("DB_MIN_CONNS: %w", err)
	}
	if cfg.ConnMaxLifetime, err = time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "5m")); err != nil {
		return Config{}, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.ConnectTimeout, err = time.ParseDuration(getEnvOrDefault("DB_CONNECT_TIMEOUT", "30s")); err != nil {
		return Config{}, fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
	}
	if cfg.MaxConns < 1 || cfg.MinConns < 0 || cfg.MinConns > cfg.MaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (%d)", cfg.MaxConns)
	}
	return cfg, nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c Config) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Connect creates a connection pool and waits, with exponential backoff,
// until the server answers a ping or ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns) //nolint:gosec // bounded by ConfigFromEnv
	poolConfig.MinConns = int32(cfg.MinConns) //nolint:gosec // bounded by ConfigFromEnv
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectTimeout
	ping := func() error { return pool.Ping(ctx) }
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Str("host", poolConfig.ConnConfig.Host).Msg("database not reachable yet")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
