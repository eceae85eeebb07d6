// Package metrics provides Prometheus metrics for the campusboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the campusboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Pipeline Metrics - Row transformation and aggregation
	rowsProcessed   prometheus.Counter
	rowsRejected    prometheus.Counter
	fillerScores    prometheus.Counter
	emailCollisions prometheus.Counter
	ingestDuration  prometheus.Histogram
	batchesIngested prometheus.Counter

	// Alerting Metrics
	alertsSent       prometheus.Counter
	alertsSuppressed prometheus.Counter
	alertsFailed     prometheus.Counter

	// Entity Gauges - Current aggregate scale
	campusCount     prometheus.Gauge
	resolverCount   prometheus.Gauge
	evaluationCount prometheus.Gauge

	// Store Metrics - Snapshot and fingerprint persistence
	snapshotSaveDuration prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	fingerprintLogSize   prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

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
		namespace:        "campusboard",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Pipeline Metrics
	m.rowsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_processed_total",
		Help:      "Total number of raw rows accepted into the aggregate",
	})

	m.rowsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_rejected_total",
		Help:      "Total number of raw rows rejected for missing identity fields",
	})

	m.fillerScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "filler_scores_total",
		Help:      "Total number of competency scores synthesized on level-text parse failure (data quality)",
	})

	m.emailCollisions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolver_email_collisions_total",
		Help:      "Total number of differently-spelled resolver names merged under one derived email",
	})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duration_milliseconds",
		Help:      "Histogram of full batch ingestion duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_ingested_total",
		Help:      "Total number of ingestion batches processed",
	})

	// Alerting Metrics
	m.alertsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_sent_total",
		Help:      "Total number of urgent/escalation notifications delivered",
	})

	m.alertsSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of notifications suppressed by the fingerprint log",
	})

	m.alertsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_failed_total",
		Help:      "Total number of notification delivery failures",
	})

	// Entity Gauges
	m.campusCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "campus_count",
		Help:      "Number of campuses in the current aggregate snapshot",
	})

	m.resolverCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolver_count",
		Help:      "Number of resolvers in the current aggregate snapshot",
	})

	m.evaluationCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_count",
		Help:      "Number of evaluations in the current aggregate snapshot",
	})

	// Store Metrics
	m.snapshotSaveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_save_duration_milliseconds",
		Help:      "Snapshot persistence duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last persisted aggregate snapshot",
	})

	m.fingerprintLogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fingerprint_log_size",
		Help:      "Current number of entries in the alert fingerprint log",
	})

	// HTTP Performance Metrics
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

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
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

// RecordRowProcessed increments the processed rows counter.
func RecordRowProcessed() {
	globalManager.rowsProcessed.Inc()
}

// RecordRowRejected increments the rejected rows counter.
func RecordRowRejected() {
	globalManager.rowsRejected.Inc()
}

// RecordFillerScore increments the synthesized score counter.
func RecordFillerScore() {
	globalManager.fillerScores.Inc()
}

// RecordEmailCollision increments the derived-email collision counter.
func RecordEmailCollision() {
	globalManager.emailCollisions.Inc()
}

// RecordIngestDuration records full batch ingestion duration in milliseconds.
func RecordIngestDuration(durationMs float64) {
	globalManager.ingestDuration.Observe(durationMs)
}

// RecordBatchIngested increments the ingested batches counter.
func RecordBatchIngested() {
	globalManager.batchesIngested.Inc()
}

// RecordAlertSent increments the delivered notifications counter.
func RecordAlertSent() {
	globalManager.alertsSent.Inc()
}

// RecordAlertSuppressed increments the suppressed notifications counter.
func RecordAlertSuppressed() {
	globalManager.alertsSuppressed.Inc()
}

// RecordAlertFailed increments the failed notification deliveries counter.
func RecordAlertFailed() {
	globalManager.alertsFailed.Inc()
}

// UpdateCampusCount sets the campus gauge.
func UpdateCampusCount(count int) {
	globalManager.campusCount.Set(float64(count))
}

// UpdateResolverCount sets the resolver gauge.
func UpdateResolverCount(count int) {
	globalManager.resolverCount.Set(float64(count))
}

// UpdateEvaluationCount sets the evaluation gauge.
func UpdateEvaluationCount(count int) {
	globalManager.evaluationCount.Set(float64(count))
}

// RecordSnapshotSaveDuration records snapshot persistence duration.
func RecordSnapshotSaveDuration(durationMs float64) {
	globalManager.snapshotSaveDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
}

// UpdateFingerprintLogSize sets the fingerprint log gauge.
func UpdateFingerprintLogSize(size int) {
	globalManager.fingerprintLogSize.Set(float64(size))
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
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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
