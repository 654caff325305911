// Package types holds the observability contracts shared by every component
// of marketroast.
//
// Adapters, services and mocks import this package instead of a concrete
// logging or metrics backend.
package types

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines the contract for structured logging.
// All methods are context-aware so that the run ID attached by the driver
// ends up on every entry.
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs an error message with the associated error.
	//
	// Parameters:
	//   - ctx: Context carrying the run ID
	//   - msg: The log message describing the error context
	//   - err: The error object to be logged
	//   - fields: Additional structured fields for context
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a warning message.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs a debug message. Filtered out unless LOG_LEVEL=debug.
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

// Metrics defines the contract for metrics collection.
// Implementations should follow Prometheus naming conventions.
type Metrics interface {
	// RecordSuccess increments the success counter for a specific operation type.
	RecordSuccess(operationType string)

	// RecordError increments the error counter for a specific operation and error type.
	//
	// Parameters:
	//   - operationType: The type of operation that failed (e.g., "get_report", "archive")
	//   - errorType: The category of error (e.g., "service_error", "output_error")
	RecordError(operationType string, errorType string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, duration float64)

	// RecordFileSize records the size of a written file in bytes.
	RecordFileSize(fileType string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Must be paired with EndOperation.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	EndOperation(operation string)
}

// Fields represents structured logging fields as key-value pairs.
//
// Example:
//
//	fields := Fields{
//		"report_id": "1234567890",
//		"merchant":  "A2EXAMPLE",
//	}
type Fields map[string]interface{}

// Config holds observability configuration for the provider.
type Config struct {
	// ServiceName identifies the service in logs and prefixes metric names.
	ServiceName string

	// Environment specifies the deployment environment ("local", "production", ...).
	Environment string

	// LogLevel sets the minimum log level: "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is "json" (default) or "console".
	LogFormat string

	// LogOutput is where log entries are written. Defaults to os.Stderr so
	// that stdout stays reserved for the report summary.
	LogOutput io.Writer

	// Registry receives every metric created by the provider. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry

	// AdditionalFields are included in every log entry.
	AdditionalFields Fields
}

// Provider manages the lifecycle of observability components.
// Multiple calls with the same component name return the same instance.
type Provider interface {
	// Logger returns a Logger instance for the specified component.
	Logger(component string) Logger

	// Metrics returns a Metrics instance for the specified component.
	Metrics(component string) Metrics

	// Gatherer exposes every metric registered through the provider.
	Gatherer() prometheus.Gatherer

	// Close releases the provider's resources.
	Close() error
}
