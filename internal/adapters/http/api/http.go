// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/pkg/logger"
)

// DefaultMaxBodyBytes caps the request body read by the method handler.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Handle runs one decoded request through the dispatcher.
	Handle(ctx context.Context, body *model.Object, rc *model.Context) model.Result

	// Ping reports whether the durable store is reachable.
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	methodHandler *MethodHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	logger        logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps request bodies on the method routes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.methodHandler.maxBody = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	if deps == nil {
		panic(ErrNoDispatcher)
	}
	s := &Server{
		methodHandler: NewMethodHandler(deps),
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
		logger:        logger.Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.methodHandler.logger = s.logger
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/metrics", MetricsMiddleware(HandleMetrics, "metrics"))

	r.Post("/method", MetricsMiddleware(s.methodHandler.HandleMethod, "method"))
	r.Post("/online_score", MetricsMiddleware(s.methodHandler.HandleMethod, "method"))
	r.Post("/clients_interests", MetricsMiddleware(s.methodHandler.HandleMethod, "method"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeResult(w, model.Fail(model.StatusNotFound, ""))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, model.Reply{
			Error: http.StatusText(http.StatusMethodNotAllowed),
			Code:  http.StatusMethodNotAllowed,
		})
	})
}

// Routes builds a router with every API route registered.
func (s *Server) Routes(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult writes the envelope with the HTTP status mirroring its code.
func writeResult(w http.ResponseWriter, res model.Result) {
	writeJSON(w, int(res.Code), res.Reply())
}
