// Package cache implements the ephemeral score cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/okian/scoring/pkg/metrics"
)

const defaultMetricsInterval = 5 * time.Second

// Option applies a configuration option to the TTLCache.
type Option func(*TTLCache)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetricsUpdateInterval sets how often the entry count gauge is published.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(c *TTLCache) {
		if interval > 0 {
			c.metricsInterval = interval
		}
	}
}

type entry struct {
	value     float64
	expiresAt time.Time
}

// TTLCache is a map of scores with per-entry expiry. All access goes through
// one mutex. Expired entries are dropped when read; live ones are never evicted.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time

	metricsInterval time.Duration
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
}

// New creates an empty cache.
func New(opts ...Option) *TTLCache {
	c := &TTLCache{
		entries:         make(map[string]entry),
		now:             time.Now,
		metricsInterval: defaultMetricsInterval,
		stopChan:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value under key if it has not expired.
func (c *TTLCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return 0, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (c *TTLCache) Set(key string, value float64, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Len returns the number of entries, including expired ones not yet read.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheGet implements scoring.Cache.
func (c *TTLCache) CacheGet(_ context.Context, key string) (float64, bool) {
	return c.Get(key)
}

// CacheSet implements scoring.Cache.
func (c *TTLCache) CacheSet(_ context.Context, key string, value float64, ttl time.Duration) {
	c.Set(key, value, ttl)
}

// StartMetricsUpdater publishes the entry count until ctx is done or Close is called.
func (c *TTLCache) StartMetricsUpdater(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateCacheEntries(c.Len())
			}
		}
	}()
}

// Close stops the metrics updater.
func (c *TTLCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	return nil
}
