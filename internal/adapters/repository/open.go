package repository

import (
	"context"
	"fmt"
	"time"
)

// BackendConfig selects and configures the durable backend.
type BackendConfig struct {
	Kind          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SQLitePath    string
	SocketTimeout time.Duration
}

// Open builds the backend named by cfg.Kind. An empty kind selects memory.
func Open(ctx context.Context, cfg BackendConfig) (Backend, error) {
	timeout := cfg.SocketTimeout
	if timeout <= 0 {
		timeout = DefaultSocketTimeout
	}
	switch cfg.Kind {
	case "", BackendMemory:
		return NewMemoryBackend(), nil
	case BackendRedis:
		return NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix, timeout), nil
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Kind)
	}
}
