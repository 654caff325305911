package types

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	reportIDKey contextKey = "report_id"
)

// WithRunID attaches the run identifier used to correlate every log entry of
// a single invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFrom returns the run identifier stored in ctx, if any.
func RunIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithReportID attaches the MWS report ID being processed.
func WithReportID(ctx context.Context, reportID string) context.Context {
	return context.WithValue(ctx, reportIDKey, reportID)
}

// ReportIDFrom returns the report ID stored in ctx, if any.
func ReportIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reportIDKey).(string)
	return id, ok && id != ""
}
