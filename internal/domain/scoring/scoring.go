// Package scoring computes the online score of a client profile and caches
// it under a content hash of the inputs.
package scoring

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/okian/scoring/pkg/metrics"
)

// Default scoring configuration constants.
const (
	DefaultTTL = 3600 * time.Second

	keyPrefix = "uid:"

	phoneWeight    = 1.5
	emailWeight    = 1.5
	birthdayWeight = 1.5
	nameWeight     = 0.5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTTL sets how long computed scores stay in the cache.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// Cache is the ephemeral score cache the engine reads through.
type Cache interface {
	CacheGet(ctx context.Context, key string) (float64, bool)
	CacheSet(ctx context.Context, key string, value float64, ttl time.Duration)
}

// Input carries the validated online_score arguments. Absent or null values
// are empty strings and a nil Gender.
type Input struct {
	Phone     string
	Email     string
	Birthday  string
	Gender    *int
	FirstName string
	LastName  string
}

// Scorer computes a score for an input.
type Scorer interface {
	// Score returns the score for in, honoring ctx for the cache calls.
	Score(ctx context.Context, in Input) float64
}

// Engine implements Scorer with a read-through cache.
type Engine struct {
	cache Cache
	ttl   time.Duration
}

// NewEngine creates a new engine over cache with configuration options.
func NewEngine(cache Cache, opts ...Option) *Engine {
	e := &Engine{
		cache: cache,
		ttl:   DefaultTTL,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Score returns the cached score for in when a nonzero one exists, otherwise
// computes it and stores it for the configured TTL.
func (e *Engine) Score(ctx context.Context, in Input) float64 {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	key := Key(in)
	if v, ok := e.cache.CacheGet(ctx, key); ok && v != 0 {
		metrics.RecordScoreCacheHit()
		return v
	}
	metrics.RecordScoreCacheMiss()

	score := Compute(in)
	e.cache.CacheSet(ctx, key, score, e.ttl)
	return score
}

// Key derives the cache key from the inputs. Concatenation order is
// first name, last name, phone, birthday.
func Key(in Input) string {
	sum := sha256.Sum256([]byte(in.FirstName + in.LastName + in.Phone + in.Birthday))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Compute is the additive heuristic without any caching.
func Compute(in Input) float64 {
	var score float64
	if in.Phone != "" {
		score += phoneWeight
	}
	if in.Email != "" {
		score += emailWeight
	}
	if in.Birthday != "" && in.Gender != nil {
		score += birthdayWeight
	}
	if in.FirstName != "" && in.LastName != "" {
		score += nameWeight
	}
	return score
}
