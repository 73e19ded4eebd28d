// Package config defines service configuration structures and loading hooks.
package config

import (
	"time"

	"github.com/okian/scoring/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects text or json records.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// LogFile appends logs to a file instead of stdout when set.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// Salt, AdminLogin and AdminSalt are the token material.
	Salt       string `koanf:"salt" validate:"required"`
	AdminLogin string `koanf:"admin_login" validate:"required"`
	AdminSalt  string `koanf:"admin_salt" validate:"required"`

	// ScoreTTLSeconds is how long computed scores stay cached.
	ScoreTTLSeconds int `koanf:"score_ttl_seconds" validate:"gt=0"`

	// StrictInterests answers 404 when no requested client has interests.
	StrictInterests bool `koanf:"strict_interests"`

	// StoreBackend selects the durable store: memory, redis or sqlite.
	StoreBackend   string `koanf:"store_backend" validate:"oneof=memory redis sqlite"`
	RedisAddr      string `koanf:"redis_addr" validate:"required_if=StoreBackend redis"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db" validate:"gte=0"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
	SQLitePath     string `koanf:"sqlite_path" validate:"required_if=StoreBackend sqlite"`

	// Reconnect policy of the durable store.
	SocketTimeoutMS      int `koanf:"socket_timeout_ms" validate:"gt=0"`
	ReconnectMaxAttempts int `koanf:"reconnect_max_attempts" validate:"gte=0"`
	ReconnectDelayMS     int `koanf:"reconnect_delay_ms" validate:"gte=0"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		Salt:                 "Otus",
		AdminLogin:           "admin",
		AdminSalt:            "42",
		ScoreTTLSeconds:      3600,
		StoreBackend:         repository.BackendMemory,
		RedisAddr:            "127.0.0.1:6379",
		RedisKeyPrefix:       repository.DefaultRedisKeyPrefix,
		SQLitePath:           "data/interests.db",
		SocketTimeoutMS:      300,
		ReconnectMaxAttempts: 20,
		ReconnectDelayMS:     100,
	}
	return c
}

// ScoreTTL returns the score cache TTL.
func (c *Config) ScoreTTL() time.Duration {
	return time.Duration(c.ScoreTTLSeconds) * time.Second
}

// Policy returns the store reconnect policy.
func (c *Config) Policy() repository.Policy {
	return repository.Policy{
		SocketTimeout: time.Duration(c.SocketTimeoutMS) * time.Millisecond,
		MaxAttempts:   c.ReconnectMaxAttempts,
		Delay:         time.Duration(c.ReconnectDelayMS) * time.Millisecond,
	}
}

// Backend returns the durable backend selection.
func (c *Config) Backend() repository.BackendConfig {
	return repository.BackendConfig{
		Kind:          c.StoreBackend,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisKeyPrefix,
		SQLitePath:    c.SQLitePath,
		SocketTimeout: time.Duration(c.SocketTimeoutMS) * time.Millisecond,
	}
}
