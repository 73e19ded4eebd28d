package repository

import (
	"time"

	"github.com/okian/scoring/internal/adapters/cache"
	"github.com/okian/scoring/pkg/logger"
)

// Default reconnect policy.
const (
	DefaultSocketTimeout = 300 * time.Millisecond
	DefaultMaxAttempts   = 20
	DefaultRetryDelay    = 100 * time.Millisecond
)

// Policy bounds every durable store call: each attempt gets SocketTimeout, and
// a failed call is retried up to MaxAttempts more times, Delay apart.
type Policy struct {
	SocketTimeout time.Duration
	MaxAttempts   int
	Delay         time.Duration
}

// DefaultPolicy returns the default reconnect policy.
func DefaultPolicy() Policy {
	return Policy{
		SocketTimeout: DefaultSocketTimeout,
		MaxAttempts:   DefaultMaxAttempts,
		Delay:         DefaultRetryDelay,
	}
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithPolicy sets the reconnect policy. Zero durations and a negative
// MaxAttempts keep the defaults; MaxAttempts of 0 disables retries.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		if p.SocketTimeout > 0 {
			c.policy.SocketTimeout = p.SocketTimeout
		}
		if p.MaxAttempts >= 0 {
			c.policy.MaxAttempts = p.MaxAttempts
		}
		if p.Delay > 0 {
			c.policy.Delay = p.Delay
		}
	}
}

// WithCache sets the ephemeral score cache.
func WithCache(ch *cache.TTLCache) Option {
	return func(c *Client) {
		if ch != nil {
			c.cache = ch
		}
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
