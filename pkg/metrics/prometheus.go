// Package metrics provides Prometheus metrics for the contestboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeNetwork  = "network"
	OutcomeDecode   = "decode"
)

// Manager manages all Prometheus metrics for the contestboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Upstream judge
	fetchTotal        *prometheus.CounterVec
	fetchDuration     prometheus.Histogram
	fetchShared       prometheus.Counter
	fetchThrottleWait prometheus.Histogram

	// Session cache
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheSize          prometheus.Gauge
	cacheInvalidations *prometheus.CounterVec

	// Standings computation
	recomputeTotal    *prometheus.CounterVec
	recomputeDuration prometheus.Histogram
	teamContextReuse  prometheus.Counter

	// Debounce scheduler
	debounceScheduled *prometheus.CounterVec
	debounceFired     *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
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

// Init rebuilds the global manager on a fresh custom registry. It is meant
// to run once at startup, before metrics are recorded concurrently.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "contestboard",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.fetchTotal = auto.NewCounterVec(
		m.counterOpts("judge_fetch_total", "Contest fetches against the judge by outcome"),
		[]string{"outcome"},
	)
	m.fetchDuration = auto.NewHistogram(
		m.histogramOpts("judge_fetch_duration_milliseconds", "Latency of contest fetches in milliseconds"),
	)
	m.fetchShared = auto.NewCounter(
		m.counterOpts("judge_fetch_shared_total", "Fetches answered by an in-flight request for the same contest"),
	)
	m.fetchThrottleWait = auto.NewHistogram(
		m.histogramOpts("judge_throttle_wait_milliseconds", "Time spent waiting on the client rate limiter"),
	)

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Contest cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Contest cache misses"))
	m.cacheSize = auto.NewGauge(m.gaugeOpts("cache_contests", "Contests currently cached"))
	m.cacheInvalidations = auto.NewCounterVec(
		m.counterOpts("cache_invalidations_total", "Cache entries dropped by reason"),
		[]string{"reason"},
	)

	m.recomputeTotal = auto.NewCounterVec(
		m.counterOpts("recompute_total", "Standings computations by trigger"),
		[]string{"trigger"},
	)
	m.recomputeDuration = auto.NewHistogram(
		m.histogramOpts("recompute_duration_milliseconds", "Duration of standings computations in milliseconds"),
	)
	m.teamContextReuse = auto.NewCounter(
		m.counterOpts("team_context_reuse_total", "Computations that reused a previously built team context"),
	)

	m.debounceScheduled = auto.NewCounterVec(
		m.counterOpts("debounce_scheduled_total", "Debounce requests by channel"),
		[]string{"channel"},
	)
	m.debounceFired = auto.NewCounterVec(
		m.counterOpts("debounce_fired_total", "Debounced actions that actually ran, by channel"),
		[]string{"channel"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"),
	)
}

// Global convenience functions. They are no-ops when metrics are disabled.

func active() bool { return globalManager != nil && globalManager.enabled }

// RecordFetch counts one judge fetch and its latency.
func RecordFetch(outcome string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.fetchTotal.WithLabelValues(outcome).Inc()
	globalManager.fetchDuration.Observe(latencyMs)
}

// RecordFetchShared counts a caller that joined an in-flight fetch.
func RecordFetchShared() {
	if active() {
		globalManager.fetchShared.Inc()
	}
}

// RecordThrottleWait records time spent in the client rate limiter.
func RecordThrottleWait(waitMs float64) {
	if active() {
		globalManager.fetchThrottleWait.Observe(waitMs)
	}
}

// RecordCacheHit counts a contest cache hit.
func RecordCacheHit() {
	if active() {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss counts a contest cache miss.
func RecordCacheMiss() {
	if active() {
		globalManager.cacheMisses.Inc()
	}
}

// UpdateCacheSize sets the number of cached contests.
func UpdateCacheSize(n int) {
	if active() {
		globalManager.cacheSize.Set(float64(n))
	}
}

// RecordCacheInvalidation counts dropped cache entries.
func RecordCacheInvalidation(reason string, n int) {
	if active() && n > 0 {
		globalManager.cacheInvalidations.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordRecompute counts one standings computation.
func RecordRecompute(trigger string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.recomputeTotal.WithLabelValues(trigger).Inc()
	globalManager.recomputeDuration.Observe(latencyMs)
}

// RecordTeamContextReuse counts a memoized team context hit.
func RecordTeamContextReuse() {
	if active() {
		globalManager.teamContextReuse.Inc()
	}
}

// RecordDebounceScheduled counts a Schedule call on a channel.
func RecordDebounceScheduled(channel string) {
	if active() {
		globalManager.debounceScheduled.WithLabelValues(channel).Inc()
	}
}

// RecordDebounceFired counts a debounced action that ran.
func RecordDebounceFired(channel string) {
	if active() {
		globalManager.debounceFired.WithLabelValues(channel).Inc()
	}
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if active() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if active() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent records errors by component.
func RecordErrorByComponent(component, errorType string) {
	if active() {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint records errors by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if active() {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage updates memory usage metric.
func UpdateSystemMemoryUsage(bytes uint64) {
	if active() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount updates goroutine count metric.
func UpdateSystemGoroutineCount(count int) {
	if active() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	if active() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom registry for use in HTTP handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
