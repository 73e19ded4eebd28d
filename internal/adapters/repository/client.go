package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/scoring/internal/adapters/cache"
	"github.com/okian/scoring/pkg/logger"
	"github.com/okian/scoring/pkg/metrics"
)

// Client fronts a durable Backend and the ephemeral score cache. Durable
// calls follow the reconnect Policy; cache calls never block.
type Client struct {
	backend Backend
	cache   *cache.TTLCache
	policy  Policy
	log     logger.Logger
}

// NewClient creates a client over backend.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend: backend,
		policy:  DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.New()
	}
	return c
}

// Get returns the interests stored for id.
func (c *Client) Get(ctx context.Context, id string) ([]string, bool, error) {
	var (
		interests []string
		found     bool
	)
	err := c.do(ctx, "get", func(ctx context.Context) error {
		var err error
		interests, found, err = c.backend.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return interests, found, nil
}

// Set replaces the interests stored for id.
func (c *Client) Set(ctx context.Context, id string, interests []string) error {
	return c.do(ctx, "set", func(ctx context.Context) error {
		return c.backend.Set(ctx, id, interests)
	})
}

// CacheGet reads the score cache.
func (c *Client) CacheGet(ctx context.Context, key string) (float64, bool) {
	return c.cache.CacheGet(ctx, key)
}

// CacheSet writes the score cache.
func (c *Client) CacheSet(ctx context.Context, key string, value float64, ttl time.Duration) {
	c.cache.CacheSet(ctx, key, value, ttl)
}

// Ping checks the backend once within the socket timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.policy.SocketTimeout)
	defer cancel()
	if err := c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping: %w: %w", c.backend.Name(), ErrStoreUnavailable, err)
	}
	return nil
}

// Cache returns the score cache.
func (c *Client) Cache() *cache.TTLCache { return c.cache }

// Backend returns the durable backend.
func (c *Client) Backend() Backend { return c.backend }

// Policy returns the effective reconnect policy.
func (c *Client) Policy() Policy { return c.policy }

// Close closes the backend.
func (c *Client) Close() error {
	return c.backend.Close()
}

func (c *Client) do(ctx context.Context, op string, fn func(context.Context) error) error {
	name := c.backend.Name()
	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.RecordStoreRetry(name, op)
			if c.log != nil {
				c.log.Warn(ctx, "store call failed, retrying",
					logger.String("backend", name),
					logger.String("operation", op),
					logger.Int("attempt", attempt),
					logger.Error(lastErr),
				)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s %s: %w: %w", name, op, ErrStoreUnavailable, ctx.Err())
			case <-time.After(c.policy.Delay):
			}
		}

		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.policy.SocketTimeout)
		err := fn(attemptCtx)
		cancel()
		metrics.RecordStoreLatency(name, op, float64(time.Since(start).Microseconds())/1000)

		if err == nil {
			return nil
		}
		if errors.Is(err, ErrCorruptRecord) || errors.Is(err, ErrEmptyID) {
			metrics.RecordStoreError(name, op)
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	metrics.RecordStoreError(name, op)
	return fmt.Errorf("%s %s: %w: %w", name, op, ErrStoreUnavailable, lastErr)
}
