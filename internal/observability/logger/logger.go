// Package logger provides the structured logger used by marketroast.
// Entries are JSON objects written with zerolog, one per line, carrying the
// same standard fields on every entry so that they can be shipped to a log
// aggregator unchanged.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"marketroast/internal/observability/types"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel converts a string representation to a zerolog level.
// Unrecognized levels default to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZerologLogger implements types.Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// New creates a logger with the standard fields attached.
//
// Parameters:
//   - serviceName: Name of the service for identification in logs
//   - environment: Deployment environment (e.g., "production", "local")
//   - logLevel: Minimum log level to output ("debug", "info", "warn", "error")
//   - format: FormatJSON or FormatConsole
//   - output: Where to write log entries (defaults to os.Stderr if nil)
//   - additionalFields: Fields to include in every log entry
func New(serviceName, environment, logLevel, format string, output io.Writer, additionalFields types.Fields) *ZerologLogger {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	if output == nil {
		output = os.Stderr
	}
	if format == FormatConsole {
		output = zerolog.ConsoleWriter{Out: output, NoColor: true}
	}

	ctx := zerolog.New(output).
		Level(ParseLevel(logLevel)).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", environment).
		Str("hostname", hostname)

	if len(additionalFields) > 0 {
		ctx = ctx.Fields(map[string]interface{}(additionalFields))
	}

	return &ZerologLogger{zl: ctx.Logger()}
}

// Info logs an informational message.
func (l *ZerologLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Info(), fields).Msg(msg)
}

// Error logs an error message together with the error and its Go type.
func (l *ZerologLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	event := l.zl.Error()
	if err != nil {
		event = event.Err(err).Str("error_type", fmt.Sprintf("%T", err))
	}
	l.write(ctx, event, fields).Msg(msg)
}

// Warn logs a warning message.
func (l *ZerologLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Warn(), fields).Msg(msg)
}

// Debug logs a debug message.
func (l *ZerologLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	l.write(ctx, l.zl.Debug(), fields).Msg(msg)
}

// WithFields returns a child logger carrying fields on every entry.
//
// Example:
//
//	reportLogger := logger.WithFields(types.Fields{"report_id": "123"})
//	reportLogger.Info(ctx, "Fetching report", nil)
func (l *ZerologLogger) WithFields(fields types.Fields) types.Logger {
	return &ZerologLogger{
		zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}

// write decorates an event with context values and call-specific fields.
// zerolog returns a nil event for disabled levels; every method on a nil
// event is a no-op.
func (l *ZerologLogger) write(ctx context.Context, event *zerolog.Event, fields types.Fields) *zerolog.Event {
	if ctx != nil {
		if runID, ok := types.RunIDFrom(ctx); ok {
			event = event.Str("run_id", runID)
		}
		if reportID, ok := types.ReportIDFrom(ctx); ok {
			event = event.Str("report_id", reportID)
		}
	}
	if len(fields) > 0 {
		event = event.Fields(map[string]interface{}(fields))
	}
	return event
}
