// Package metrics provides Prometheus metrics for the scoring API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoring service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dispatch outcomes
	dispatchRequests   *prometheus.CounterVec
	authFailures       *prometheus.CounterVec
	validationFailures *prometheus.CounterVec

	// Scoring
	scoreCacheHits   prometheus.Counter
	scoreCacheMisses prometheus.Counter
	scoringLatency   prometheus.Histogram
	cacheEntries     prometheus.Gauge

	// Interests lookups
	interestsLookups *prometheus.CounterVec

	// Durable store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	storeRetries *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoring",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.dispatchRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dispatch_requests_total",
			Help:      "Total number of dispatched requests by method and result code",
		},
		[]string{"method", "code"},
	)

	m.authFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected tokens by caller kind",
		},
		[]string{"caller"},
	)

	m.validationFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_failures_total",
			Help:      "Total number of payloads rejected by schema",
		},
		[]string{"schema"},
	)

	m.scoreCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_cache_hits_total",
		Help:      "Total number of scores served from the cache",
	})

	m.scoreCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_cache_misses_total",
		Help:      "Total number of scores computed after a cache miss",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Current number of entries held by the score cache",
	})

	m.interestsLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "interests_lookups_total",
			Help:      "Total number of client interest lookups by outcome",
		},
		[]string{"outcome"},
	)

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_operation_latency_milliseconds",
			Help:      "Latency of durable store operations in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"backend", "operation"},
	)

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of durable store operations that failed after retries",
		},
		[]string{"backend", "operation"},
	)

	m.storeRetries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_retries_total",
			Help:      "Total number of durable store reconnect attempts",
		},
		[]string{"backend", "operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordDispatch counts one dispatched request.
func RecordDispatch(method, code string) {
	globalManager.dispatchRequests.WithLabelValues(method, code).Inc()
}

// RecordAuthFailure counts a rejected token. caller is "admin" or "user".
func RecordAuthFailure(caller string) {
	globalManager.authFailures.WithLabelValues(caller).Inc()
}

// RecordValidationFailure counts a payload rejected by the named schema.
func RecordValidationFailure(schema string) {
	globalManager.validationFailures.WithLabelValues(schema).Inc()
}

// RecordScoreCacheHit increments the score cache hit counter.
func RecordScoreCacheHit() {
	globalManager.scoreCacheHits.Inc()
}

// RecordScoreCacheMiss increments the score cache miss counter.
func RecordScoreCacheMiss() {
	globalManager.scoreCacheMisses.Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// UpdateCacheEntries sets the current number of cache entries.
func UpdateCacheEntries(count int) {
	globalManager.cacheEntries.Set(float64(count))
}

// RecordInterestsLookup counts one client id lookup. outcome is "found" or "missing".
func RecordInterestsLookup(outcome string) {
	globalManager.interestsLookups.WithLabelValues(outcome).Inc()
}

// RecordStoreLatency records the latency of a durable store operation.
func RecordStoreLatency(backend, operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordStoreError counts a durable store operation that gave up.
func RecordStoreError(backend, operation string) {
	globalManager.storeErrors.WithLabelValues(backend, operation).Inc()
}

// RecordStoreRetry counts one reconnect attempt.
func RecordStoreRetry(backend, operation string) {
	globalManager.storeRetries.WithLabelValues(backend, operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
