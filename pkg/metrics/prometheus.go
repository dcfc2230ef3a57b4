// Package metrics provides Prometheus metrics for the vigil proctoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the vigil service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - the alert pipeline
	alertsEmitted    *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	ticksProcessed   prometheus.Counter
	ticksSkipped     *prometheus.CounterVec
	tickDuration     prometheus.Histogram

	// Event Sink Metrics
	sinkAppends       prometheus.Counter
	sinkAppendErrors  prometheus.Counter
	sinkAppendLatency prometheus.Histogram

	// Report Metrics
	reportsComputed prometheus.Counter
	reportErrors    prometheus.Counter
	reportsExported *prometheus.CounterVec

	// Operational Health Metrics
	activeSessions   prometheus.Gauge
	alertSubscribers prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vigil",
		subsystem:        "proctor",
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
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.alertsEmitted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_emitted_total",
		Help:      "Total number of alerts emitted after debounce, by alert type",
	}, []string{"alert_type"})

	m.alertsSuppressed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of true conditions suppressed by an active cooldown, by alert type",
	}, []string{"alert_type"})

	m.ticksProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ticks_processed_total",
		Help:      "Total number of monitoring ticks fully processed",
	})

	m.ticksSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ticks_skipped_total",
		Help:      "Total number of monitoring ticks skipped, by reason",
	}, []string{"reason"})

	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tick_duration_milliseconds",
		Help:      "Histogram of full tick processing duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sinkAppends = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_appends_total",
		Help:      "Total number of events appended to the event sink",
	})

	m.sinkAppendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_append_errors_total",
		Help:      "Total number of failed event sink appends",
	})

	m.sinkAppendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_append_latency_milliseconds",
		Help:      "Histogram of event sink append latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.reportsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_computed_total",
		Help:      "Total number of integrity reports computed",
	})

	m.reportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Total number of report computations that failed",
	})

	m.reportsExported = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_exported_total",
		Help:      "Total number of report exports, by format",
	}, []string{"format"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of sessions currently being monitored",
	})

	m.alertSubscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_subscribers",
		Help:      "Number of connected live alert stream subscribers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers operating on the global manager.

// RecordAlertEmitted increments the emitted alert counter for a type.
func RecordAlertEmitted(alertType string) {
	globalManager.alertsEmitted.WithLabelValues(alertType).Inc()
}

// RecordAlertSuppressed increments the cooldown suppression counter for a type.
func RecordAlertSuppressed(alertType string) {
	globalManager.alertsSuppressed.WithLabelValues(alertType).Inc()
}

// RecordTickProcessed increments the processed tick counter.
func RecordTickProcessed() {
	globalManager.ticksProcessed.Inc()
}

// RecordTickSkipped increments the skipped tick counter for a reason.
func RecordTickSkipped(reason string) {
	globalManager.ticksSkipped.WithLabelValues(reason).Inc()
}

// RecordTickDuration records the duration of one full tick.
func RecordTickDuration(latencyMs float64) {
	globalManager.tickDuration.Observe(latencyMs)
}

// RecordSinkAppend increments the sink append counter.
func RecordSinkAppend() {
	globalManager.sinkAppends.Inc()
}

// RecordSinkAppendError increments the sink append error counter.
func RecordSinkAppendError() {
	globalManager.sinkAppendErrors.Inc()
}

// RecordSinkAppendLatency records one sink append latency observation.
func RecordSinkAppendLatency(latencyMs float64) {
	globalManager.sinkAppendLatency.Observe(latencyMs)
}

// RecordReportComputed increments the computed report counter.
func RecordReportComputed() {
	globalManager.reportsComputed.Inc()
}

// RecordReportError increments the report error counter.
func RecordReportError() {
	globalManager.reportErrors.Inc()
}

// RecordReportExported increments the export counter for a format.
func RecordReportExported(format string) {
	globalManager.reportsExported.WithLabelValues(format).Inc()
}

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// UpdateAlertSubscribers sets the alert subscriber gauge.
func UpdateAlertSubscribers(count int) {
	globalManager.alertSubscribers.Set(float64(count))
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one request duration observation.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
