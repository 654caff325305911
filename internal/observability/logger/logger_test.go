package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketroast/internal/observability/types"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestZerologLogger_StandardFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("marketroast.fetcher", "test", "info", FormatJSON, &buf, types.Fields{"version": "0.01"})

	l.Info(context.Background(), "Fetching report", types.Fields{"merchant": "M1"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Fetching report", entry["message"])
	assert.Equal(t, "marketroast.fetcher", entry["service"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "0.01", entry["version"])
	assert.Equal(t, "M1", entry["merchant"])
	assert.NotEmpty(t, entry["hostname"])
	assert.NotEmpty(t, entry["time"])
}

func TestZerologLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*ZerologLogger, context.Context)
		shouldLog bool
	}{
		{
			name:     "debug level logs debug",
			logLevel: "debug",
			logMethod: func(l *ZerologLogger, ctx context.Context) {
				l.Debug(ctx, "test", nil)
			},
			shouldLog: true,
		},
		{
			name:     "info level skips debug",
			logLevel: "info",
			logMethod: func(l *ZerologLogger, ctx context.Context) {
				l.Debug(ctx, "test", nil)
			},
			shouldLog: false,
		},
		{
			name:     "warn level skips info",
			logLevel: "warn",
			logMethod: func(l *ZerologLogger, ctx context.Context) {
				l.Info(ctx, "test", nil)
			},
			shouldLog: false,
		},
		{
			name:     "error level logs error",
			logLevel: "error",
			logMethod: func(l *ZerologLogger, ctx context.Context) {
				l.Error(ctx, "test", errors.New("boom"), nil)
			},
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New("svc", "test", tt.logLevel, FormatJSON, &buf, nil)

			tt.logMethod(l, context.Background())

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestZerologLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", "test", "info", FormatJSON, &buf, nil)

	l.Error(context.Background(), "GetReport failed", errors.New("connection reset"), types.Fields{"status": 503})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "connection reset", entries[0]["error"])
	assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
	assert.Equal(t, float64(503), entries[0]["status"])
}

func TestZerologLogger_ContextValues(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", "test", "info", FormatJSON, &buf, nil)

	ctx := types.WithRunID(context.Background(), "run-1")
	ctx = types.WithReportID(ctx, "report-9")
	l.Warn(ctx, "Using fallback key", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "run-1", entries[0]["run_id"])
	assert.Equal(t, "report-9", entries[0]["report_id"])
}

func TestZerologLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New("svc", "test", "info", FormatJSON, &buf, types.Fields{"version": "0.01"})

	child := base.WithFields(types.Fields{"component": "printer"})
	child.Info(context.Background(), "child", nil)
	base.Info(context.Background(), "parent", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "printer", entries[0]["component"])
	assert.Equal(t, "0.01", entries[0]["version"])
	_, hasComponent := entries[1]["component"]
	assert.False(t, hasComponent)
}

func TestZerologLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("svc", "test", "info", FormatConsole, &buf, nil)

	l.Info(context.Background(), "human readable", nil)

	assert.Contains(t, buf.String(), "human readable")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
