// Package service holds the report fetching workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"marketroast/internal/domain"
	"marketroast/internal/observability/types"
)

const operationGetReport = "get_report"

// ErrInvalidParams is returned when FetchParams lacks a required value.
var ErrInvalidParams = errors.New("invalid fetch parameters")

// FetchParams identifies the report to fetch and where to store it.
type FetchParams struct {
	MerchantID   string
	ReportID     string
	MWSAuthToken string
	OutputPath   string
}

// ReportFetcher downloads a single report into a local file.
type ReportFetcher struct {
	client  domain.MarketplaceService
	logger  types.Logger
	metrics types.Metrics
}

// NewReportFetcher creates a new report fetcher
func NewReportFetcher(
	client domain.MarketplaceService,
	logger types.Logger,
	metrics types.Metrics,
) *ReportFetcher {
	return &ReportFetcher{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch creates the output file, streams the report into it and closes it.
//
// The marketplace service is not called when the file cannot be created.
// On failure the partially written file is removed and the error is
// returned unchanged, so *domain.ServiceError stays inspectable.
func (f *ReportFetcher) Fetch(ctx context.Context, params FetchParams) (*domain.FetchResult, error) {
	f.metrics.StartOperation(operationGetReport)
	defer f.metrics.EndOperation(operationGetReport)
	startTime := time.Now()
	defer func() {
		// Always record duration regardless of success/failure
		f.metrics.RecordDuration(operationGetReport, time.Since(startTime).Seconds())
	}()

	fields := types.Fields{
		"merchant":    params.MerchantID,
		"report_id":   params.ReportID,
		"output_file": params.OutputPath,
	}
	f.logger.Info(ctx, "Starting report fetch", fields)

	if err := validateParams(params); err != nil {
		f.metrics.RecordError(operationGetReport, "validation_error")
		f.logger.Error(ctx, "Fetch parameters validation failed", err, fields)
		return nil, err
	}

	file, err := os.Create(params.OutputPath)
	if err != nil {
		outErr := &domain.OutputError{Path: params.OutputPath, Op: "create", Err: err}
		f.fail(ctx, outErr, fields)
		return nil, outErr
	}

	// The deferred cleanup also covers a panicking client.
	closed, succeeded := false, false
	defer func() {
		if !closed {
			_ = file.Close()
		}
		if !succeeded {
			f.removePartial(ctx, params.OutputPath)
		}
	}()

	out := &countingWriter{w: file}
	resp, err := f.client.GetReport(ctx, &domain.ReportRequest{
		Merchant:     params.MerchantID,
		ReportID:     params.ReportID,
		MWSAuthToken: params.MWSAuthToken,
		Output:       out,
	})
	closeErr := file.Close()
	closed = true

	switch {
	case out.err != nil:
		err = &domain.OutputError{Path: params.OutputPath, Op: "write", Err: out.err}
	case err == nil && closeErr != nil:
		err = &domain.OutputError{Path: params.OutputPath, Op: "close", Err: closeErr}
	case err == nil && resp == nil:
		err = fmt.Errorf("report service returned no response for report %s", params.ReportID)
	}

	if err != nil {
		f.fail(ctx, err, fields)
		return nil, err
	}
	succeeded = true

	f.metrics.RecordSuccess(operationGetReport)
	f.metrics.RecordFileSize("report", out.n)

	f.logger.Info(ctx, "Report fetched", types.Fields{
		"report_id":     params.ReportID,
		"output_file":   params.OutputPath,
		"bytes_written": out.n,
		"md5_checksum":  resp.Result.MD5Checksum,
	})

	return &domain.FetchResult{
		Response:     resp,
		OutputPath:   params.OutputPath,
		BytesWritten: out.n,
	}, nil
}

func (f *ReportFetcher) removePartial(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn(ctx, "Failed to remove partial report file", types.Fields{
			"output_file": path,
			"error":       err.Error(),
		})
	}
}

func (f *ReportFetcher) fail(ctx context.Context, err error, fields types.Fields) {
	errorType := domain.ErrorKind(err)
	f.metrics.RecordError(operationGetReport, errorType)

	logFields := types.Fields{"error_kind": errorType}
	for k, v := range fields {
		logFields[k] = v
	}

	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		logFields["status_code"] = svcErr.StatusCode
		logFields["error_code"] = svcErr.ErrorCode
		logFields["request_id"] = svcErr.RequestID
	}

	f.logger.Error(ctx, "Failed to fetch report", err, logFields)
}

func validateParams(p FetchParams) error {
	var missing []string
	if strings.TrimSpace(p.MerchantID) == "" {
		missing = append(missing, "merchant ID")
	}
	if strings.TrimSpace(p.ReportID) == "" {
		missing = append(missing, "report ID")
	}
	if strings.TrimSpace(p.OutputPath) == "" {
		missing = append(missing, "output path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidParams, strings.Join(missing, ", "))
	}
	return nil
}

// countingWriter counts the bytes written through it and keeps the first
// write error, so that sink failures can be told apart from service ones.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

// Write implements io.Writer
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}
