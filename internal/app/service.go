// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoring/internal/adapters/cache"
	"github.com/okian/scoring/internal/adapters/repository"
	"github.com/okian/scoring/internal/domain/auth"
	"github.com/okian/scoring/internal/domain/dispatch"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/internal/domain/scoring"
	"github.com/okian/scoring/pkg/logger"
)

// ErrNotStarted is returned by operations that need a started service.
var ErrNotStarted = errors.New("service not started")

// Service owns the store client, score cache, scoring engine and dispatcher.
type Service struct {
	mu sync.RWMutex

	// Core components
	client     *repository.Client
	cache      *cache.TTLCache
	engine     *scoring.Engine
	checker    *auth.Checker
	dispatcher *dispatch.Dispatcher

	// Configuration
	backend    repository.Backend
	backendCfg repository.BackendConfig
	policy     repository.Policy
	salt       string
	adminSalt  string
	adminLogin string
	scoreTTL   time.Duration
	strict     bool
	now        func() time.Time

	// State
	started  bool
	requests atomic.Int64
	codes    sync.Map // status code -> *atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackend injects a ready backend instead of opening one from config.
func WithBackend(b repository.Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithBackendConfig selects the backend opened on Start.
func WithBackendConfig(cfg repository.BackendConfig) Option {
	return func(s *Service) {
		s.backendCfg = cfg
	}
}

// WithRetryPolicy sets the store reconnect policy.
func WithRetryPolicy(p repository.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithSalts sets the user and admin token salts.
func WithSalts(salt, adminSalt string) Option {
	return func(s *Service) {
		if salt != "" {
			s.salt = salt
		}
		if adminSalt != "" {
			s.adminSalt = adminSalt
		}
	}
}

// WithAdminLogin sets the login treated as admin.
func WithAdminLogin(login string) Option {
	return func(s *Service) {
		if login != "" {
			s.adminLogin = login
		}
	}
}

// WithScoreTTL sets how long computed scores are cached.
func WithScoreTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.scoreTTL = ttl
		}
	}
}

// WithStrictInterests enables 404 when no requested client has interests.
func WithStrictInterests(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithClock overrides the time source for tokens, dates and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		backendCfg: repository.BackendConfig{Kind: repository.BackendMemory},
		policy:     repository.DefaultPolicy(),
		salt:       auth.DefaultSalt,
		adminSalt:  auth.DefaultAdminSalt,
		adminLogin: auth.DefaultAdminLogin,
		scoreTTL:   scoring.DefaultTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the durable backend, checks it is reachable and wires the
// request pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service...")

	backend := s.backend
	if backend == nil {
		b, err := repository.Open(ctx, s.backendCfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		backend = b
	}

	s.cache = cache.New(cache.WithClock(s.now))
	s.client = repository.NewClient(backend,
		repository.WithPolicy(s.policy),
		repository.WithCache(s.cache),
		repository.WithLogger(s.logger.Named("store")),
	)
	if err := s.client.Ping(ctx); err != nil {
		_ = s.client.Close()
		return fmt.Errorf("store not reachable: %w", err)
	}

	s.checker = auth.NewChecker(
		auth.WithSalt(s.salt),
		auth.WithAdminSalt(s.adminSalt),
		auth.WithAdminLogin(s.adminLogin),
		auth.WithClock(s.now),
	)
	s.engine = scoring.NewEngine(s.client, scoring.WithTTL(s.scoreTTL))
	s.dispatcher = dispatch.New(s.checker, s.engine, s.client,
		dispatch.WithLogger(s.logger.Named("dispatch")),
		dispatch.WithClock(s.now),
		dispatch.WithStrictInterests(s.strict),
	)
	s.cache.StartMetricsUpdater(ctx)

	s.started = true
	policy := s.client.Policy()
	s.logger.Info(ctx, "scoring service started",
		logger.String("backend", backend.Name()),
		logger.Int("reconnectMaxAttempts", policy.MaxAttempts),
		logger.String("socketTimeout", policy.SocketTimeout.String()),
		logger.String("scoreTTL", s.scoreTTL.String()),
		logger.Any("strictInterests", s.strict),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping scoring service...")

	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// Handle dispatches one decoded request.
func (s *Service) Handle(ctx context.Context, body *model.Object, rc *model.Context) model.Result {
	s.mu.RLock()
	d := s.dispatcher
	started := s.started
	s.mu.RUnlock()

	if !started {
		return model.Fail(model.StatusInternalError, "")
	}

	res := d.Handle(ctx, body, rc)
	s.requests.Add(1)
	counter, _ := s.codes.LoadOrStore(int(res.Code), new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
	return res
}

// Ping reports whether the durable store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	started := s.started
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	return client.Ping(ctx)
}

// Store returns the store client, or nil before Start.
func (s *Service) Store() *repository.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"scoreTTLSeconds": int(s.scoreTTL / time.Second),
		"strictInterests": s.strict,
		"requests":        s.requests.Load(),
	}

	byCode := map[string]int64{}
	s.codes.Range(func(k, v any) bool {
		byCode[strconv.Itoa(k.(int))] = v.(*atomic.Int64).Load()
		return true
	})
	stats["responses"] = byCode

	if s.started {
		stats["backend"] = s.client.Backend().Name()
		stats["cacheEntries"] = s.cache.Len()
	}

	return stats
}
