// Package metrics provides Prometheus-compatible metrics collection for
// marketroast. A CLI run is too short-lived to be scraped, so the collected
// metrics are pushed to a Pushgateway at exit (see Push).
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements types.Metrics using the Prometheus client library.
// All metrics are prefixed with the namespace and carry a constant
// "component" label so that several components can share one registry.
type PrometheusMetrics struct {
	namespace string
	component string

	// processedTotal tracks the total number of processed items by status and type
	processedTotal *prometheus.CounterVec
	// errorsTotal tracks the total number of errors by error type and operation
	errorsTotal *prometheus.CounterVec
	// durationSeconds tracks operation duration using a histogram with default buckets
	durationSeconds *prometheus.HistogramVec
	// fileSizeBytes tracks report sizes using a histogram with exponential buckets
	fileSizeBytes *prometheus.HistogramVec
	// inProgress tracks the number of operations currently in progress
	inProgress *prometheus.GaugeVec
}

// SanitizeName turns a service name such as "market-roast.v2" into a valid
// Prometheus metric namespace.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	return name
}

// New creates a PrometheusMetrics instance and registers its collectors with reg.
//
// Pre-configured metrics:
//   - {namespace}_processed_total: Counter for successful and failed operations
//   - {namespace}_errors_total: Counter for errors by type and operation
//   - {namespace}_duration_seconds: Histogram for operation durations
//   - {namespace}_file_size_bytes: Histogram for report sizes
//   - {namespace}_in_progress: Gauge for running operations
//
// Panics:
//   - If the same component is registered twice on reg
func New(namespace, component string, reg prometheus.Registerer) *PrometheusMetrics {
	namespace = SanitizeName(namespace)
	labels := prometheus.Labels{"component": component}

	m := &PrometheusMetrics{
		namespace: namespace,
		component: component,
	}

	m.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "processed_total",
			Help:        "Total processed operations by status and type.",
			ConstLabels: labels,
		},
		[]string{"status", "type"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "errors_total",
			Help:        "Total errors by error type and operation.",
			ConstLabels: labels,
		},
		[]string{"error_type", "operation"},
	)

	// Default buckets: 0.005 .. 10 seconds. Report downloads routinely take
	// longer, so the top end is extended to ten minutes.
	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "duration_seconds",
			Help:        "Operation duration in seconds.",
			Buckets:     append(append([]float64{}, prometheus.DefBuckets...), 30, 60, 120, 300, 600),
			ConstLabels: labels,
		},
		[]string{"operation"},
	)

	// Buckets: 1KB, 10KB, 100KB, 1MB, 10MB, 100MB, 1GB
	m.fileSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "file_size_bytes",
			Help:        "Size of written report files in bytes.",
			Buckets:     prometheus.ExponentialBuckets(1024, 10, 7),
			ConstLabels: labels,
		},
		[]string{"file_type"},
	)

	m.inProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "in_progress",
			Help:        "Operations in progress.",
			ConstLabels: labels,
		},
		[]string{"operation"},
	)

	reg.MustRegister(
		m.processedTotal,
		m.errorsTotal,
		m.durationSeconds,
		m.fileSizeBytes,
		m.inProgress,
	)

	return m
}

// RecordSuccess increments the success counter for a specific operation type.
func (m *PrometheusMetrics) RecordSuccess(operationType string) {
	m.processedTotal.WithLabelValues("success", operationType).Inc()
}

// RecordError increments both the processed counter (with status="error") and
// the detailed error counter.
//
// Example:
//
//	metrics.RecordError("get_report", "service_error")
func (m *PrometheusMetrics) RecordError(operationType string, errorType string) {
	m.processedTotal.WithLabelValues("error", operationType).Inc()
	m.errorsTotal.WithLabelValues(errorType, operationType).Inc()
}

// RecordDuration records the duration of an operation in seconds.
func (m *PrometheusMetrics) RecordDuration(operation string, duration float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordFileSize records the size of a written file in bytes.
func (m *PrometheusMetrics) RecordFileSize(fileType string, bytes int64) {
	m.fileSizeBytes.WithLabelValues(fileType).Observe(float64(bytes))
}

// StartOperation increments the in-progress gauge for an operation.
//
//	metrics.StartOperation("get_report")
//	defer metrics.EndOperation("get_report")
func (m *PrometheusMetrics) StartOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Inc()
}

// EndOperation decrements the in-progress gauge for an operation.
func (m *PrometheusMetrics) EndOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Dec()
}
