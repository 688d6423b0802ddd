// Package metrics provides Prometheus metrics for the shot-timing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	rowsParsed       prometheus.Counter
	parseWarnings    *prometheus.CounterVec
	shotsCompleted   prometheus.Counter
	shotsDiscarded   prometheus.Counter
	pipelineDuration prometheus.Histogram

	// Use cases
	uploads            *prometheus.CounterVec
	comparisons        prometheus.Counter
	comparisonOutliers prometheus.Counter
	exports            *prometheus.CounterVec
	storedMatches      prometheus.Gauge

	// Repository
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "smtgolf",
		subsystem:        "shots",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
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
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rowsParsed = auto.NewCounter(m.counterOpts("rows_parsed_total",
		"Total number of CSV rows parsed"))
	m.parseWarnings = auto.NewCounterVec(m.counterOpts("parse_warnings_total",
		"Measurement cells that held non-numeric text, by column"), []string{"column"})
	m.shotsCompleted = auto.NewCounter(m.counterOpts("completed_total",
		"Shots emitted by the aggregator"))
	m.shotsDiscarded = auto.NewCounter(m.counterOpts("discarded_total",
		"Row groups dropped because total distance never arrived"))
	m.pipelineDuration = auto.NewHistogram(m.histogramOpts("pipeline_duration_milliseconds",
		"Time spent parsing, aggregating and summarizing one upload", m.histogramBuckets))

	m.uploads = auto.NewCounterVec(m.counterOpts("uploads_total",
		"Uploads by mode (analyze, persist) and outcome"), []string{"mode", "outcome"})
	m.comparisons = auto.NewCounter(m.counterOpts("comparisons_total",
		"Match comparisons computed"))
	m.comparisonOutliers = auto.NewCounter(m.counterOpts("comparison_outliers_total",
		"Outlier positions found across all comparisons"))
	m.exports = auto.NewCounterVec(m.counterOpts("exports_total",
		"Workbook exports by kind"), []string{"kind"})
	m.storedMatches = auto.NewGauge(m.gaugeOpts("stored_matches",
		"Number of matches in the store"))

	m.repositoryLatency = auto.NewHistogramVec(m.histogramOpts("repository_latency_milliseconds",
		"Repository operation latency in milliseconds", m.histogramBuckets), []string{"operation"})
	m.repositoryErrors = auto.NewCounterVec(m.counterOpts("repository_errors_total",
		"Repository operation failures"), []string{"operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRowsParsed adds n parsed CSV rows.
func RecordRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// RecordParseWarning counts one unreadable measurement cell.
func RecordParseWarning(column string) {
	globalManager.parseWarnings.WithLabelValues(column).Inc()
}

// RecordShots adds the aggregator's completed and discarded counts.
func RecordShots(completed, discarded int) {
	globalManager.shotsCompleted.Add(float64(completed))
	globalManager.shotsDiscarded.Add(float64(discarded))
}

// RecordPipelineDuration records one pipeline run in milliseconds.
func RecordPipelineDuration(ms float64) {
	globalManager.pipelineDuration.Observe(ms)
}

// RecordUpload counts an upload by mode and outcome.
func RecordUpload(mode, outcome string) {
	globalManager.uploads.WithLabelValues(mode, outcome).Inc()
}

// RecordComparison counts a comparison and its outlier positions.
func RecordComparison(outliers int) {
	globalManager.comparisons.Inc()
	globalManager.comparisonOutliers.Add(float64(outliers))
}

// RecordExport counts a workbook export.
func RecordExport(kind string) {
	globalManager.exports.WithLabelValues(kind).Inc()
}

// UpdateStoredMatches sets the number of stored matches.
func UpdateStoredMatches(n int) {
	globalManager.storedMatches.Set(float64(n))
}

// RecordRepositoryLatency records a repository operation latency.
func RecordRepositoryLatency(operation string, ms float64) {
	globalManager.repositoryLatency.WithLabelValues(operation).Observe(ms)
}

// RecordRepositoryError counts a failed repository operation.
func RecordRepositoryError(operation string) {
	globalManager.repositoryErrors.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
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
