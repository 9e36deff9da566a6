package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Matching
	matchesGenerated  prometheus.Counter
	candidatesScored  prometheus.Counter
	candidatesSkipped prometheus.Counter
	matchScore        prometheus.Histogram
	matchTier         *prometheus.CounterVec
	buildLatency      prometheus.Histogram
	profilesTotal     prometheus.Gauge

	// Repository
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// Regeneration queue
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueRejected     *prometheus.CounterVec
	queueDeduplicated prometheus.Counter

	// Workers
	workerActive  prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "skillswap",
		subsystem:      "matching",
		latencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.matchesGenerated = m.counter("matches_generated_total", "Total number of match records written by generation runs")
	m.candidatesScored = m.counter("candidates_scored_total", "Total number of candidates scored")
	m.candidatesSkipped = m.counter("candidates_skipped_total", "Total number of malformed candidates skipped")
	m.matchScore = m.histogram("match_score", "Distribution of emitted match scores",
		prometheus.LinearBuckets(10, 10, 10))
	m.matchTier = m.counterVec("match_tier_total", "Emitted matches by tier", "tier")
	m.buildLatency = m.histogram("build_duration_ms", "Time to build a match set in milliseconds", m.latencyBuckets)
	m.profilesTotal = m.gauge("profiles_total", "Number of profiles seen by the last generation run")

	m.repositoryLatency = m.histogramVec("repository_operation_duration_ms",
		"Repository operation latency in milliseconds", m.latencyBuckets, "backend", "operation")
	m.repositoryErrors = m.counterVec("repository_errors_total",
		"Repository operation failures", "backend", "operation")

	m.queueSize = m.gauge("regenerate_queue_size", "Pending regeneration requests")
	m.queueCapacity = m.gauge("regenerate_queue_capacity", "Capacity of the regeneration queue")
	m.queueEnqueued = m.counter("regenerate_enqueued_total", "Regeneration requests accepted")
	m.queueDequeued = m.counter("regenerate_dequeued_total", "Regeneration requests handed to workers")
	m.queueRejected = m.counterVec("regenerate_rejected_total", "Regeneration requests rejected", "reason")
	m.queueDeduplicated = m.counter("regenerate_deduplicated_total",
		"Regeneration requests coalesced with a pending one")

	m.workerActive = m.gauge("worker_active_count", "Number of running regeneration workers")
	m.workerLatency = m.histogram("worker_processing_ms",
		"Time a worker spends on one regeneration request in milliseconds", m.latencyBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Regeneration requests that failed")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request duration in seconds",
		prometheus.DefBuckets, "endpoint", "method", "status_code")
	m.httpRateLimited = m.counterVec("http_rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")
}

// RecordBuild records the outcome of one match set build.
func (m *Manager) RecordBuild(scored, skipped int, latencyMs float64) {
	m.candidatesScored.Add(float64(scored))
	m.candidatesSkipped.Add(float64(skipped))
	m.buildLatency.Observe(latencyMs)
}

// RecordMatch records one emitted match.
func (m *Manager) RecordMatch(score int, tier string) {
	m.matchesGenerated.Inc()
	m.matchScore.Observe(float64(score))
	m.matchTier.WithLabelValues(tier).Inc()
}

// Package-level recorders on the global manager.

// RecordBuild records the outcome of one match set build.
func RecordBuild(scored, skipped int, latencyMs float64) {
	globalManager.RecordBuild(scored, skipped, latencyMs)
}

// RecordMatch records one emitted match.
func RecordMatch(score int, tier string) {
	globalManager.RecordMatch(score, tier)
}

// UpdateProfilesTotal sets the number of known profiles.
func UpdateProfilesTotal(count int) {
	globalManager.profilesTotal.Set(float64(count))
}

// RecordRepositoryOperation records latency of a repository call and, when failed, an error.
func RecordRepositoryOperation(backend, operation string, latencyMs float64, failed bool) {
	globalManager.repositoryLatency.WithLabelValues(backend, operation).Observe(latencyMs)
	if failed {
		globalManager.repositoryErrors.WithLabelValues(backend, operation).Inc()
	}
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the accepted counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeued counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected increments the rejected counter for reason.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordQueueDeduplicated increments the coalesced counter.
func RecordQueueDeduplicated() {
	globalManager.queueDeduplicated.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited increments the rate-limited counter for endpoint.
func RecordRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
