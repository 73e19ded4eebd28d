// Package repository holds the durable client interests store and the client
// that fronts it together with the score cache.
package repository

import "context"

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Backend provides read/write access to interest records keyed by client id.
type Backend interface {
	// Get returns the interests stored for id. found is false when nothing is stored.
	Get(ctx context.Context, id string) (interests []string, found bool, err error)

	// Set stores interests for id, replacing any previous value.
	Set(ctx context.Context, id string, interests []string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases connections held by the backend.
	Close() error

	// Name returns the backend name used in logs and metrics.
	Name() string
}
