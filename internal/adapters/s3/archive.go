// Package s3 archives retrieved reports to an S3 bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"marketroast/internal/config"
	"marketroast/internal/domain"
	"marketroast/internal/observability/types"
)

const operationArchive = "archive"

// PutObjectAPI is the subset of the S3 client used by Archiver.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver implements domain.ReportArchiver on S3.
type Archiver struct {
	client  PutObjectAPI
	config  config.ArchiveConfig
	logger  types.Logger
	metrics types.Metrics
}

// NewArchiver creates an S3 client from the default AWS credential chain.
// A custom endpoint (MinIO, LocalStack) switches the client to path-style
// addressing.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig, logger types.Logger, metrics types.Metrics) (*Archiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("archive bucket is not configured")
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewArchiverWithClient(client, cfg, logger, metrics), nil
}

// NewArchiverWithClient creates an Archiver on top of an existing client.
func NewArchiverWithClient(client PutObjectAPI, cfg config.ArchiveConfig, logger types.Logger, metrics types.Metrics) *Archiver {
	return &Archiver{
		client:  client,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Archive uploads the report at localPath and returns its s3:// location.
func (a *Archiver) Archive(ctx context.Context, localPath, reportID string) (string, error) {
	a.metrics.StartOperation(operationArchive)
	defer a.metrics.EndOperation(operationArchive)
	start := time.Now()
	defer func() {
		a.metrics.RecordDuration(operationArchive, time.Since(start).Seconds())
	}()

	key := a.config.ObjectKey(reportID, localPath)
	fields := types.Fields{
		"bucket":     a.config.Bucket,
		"key":        key,
		"local_path": localPath,
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", a.fail(ctx, key, "open_error", err, fields)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", a.fail(ctx, key, "open_error", err, fields)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.config.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("text/plain"),
		Metadata: map[string]string{
			"report-id": reportID,
		},
	})
	if err != nil {
		errorType := "upload_error"
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			errorType = "api_error"
			fields["aws_error_code"] = apiErr.ErrorCode()
		}
		return "", a.fail(ctx, key, errorType, err, fields)
	}

	a.metrics.RecordSuccess(operationArchive)
	a.metrics.RecordFileSize(operationArchive, info.Size())

	location := fmt.Sprintf("s3://%s/%s", a.config.Bucket, key)
	a.logger.Info(ctx, "Report archived", types.Fields{
		"location": location,
		"size":     info.Size(),
	})

	return location, nil
}

func (a *Archiver) fail(ctx context.Context, key, errorType string, err error, fields types.Fields) error {
	a.metrics.RecordError(operationArchive, errorType)
	a.logger.Error(ctx, "Failed to archive report", err, fields)
	return &domain.ArchiveError{Bucket: a.config.Bucket, Key: key, Err: err}
}

func buildAWSConfig(ctx context.Context, cfg config.ArchiveConfig) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}
