// Package domain holds the entities, error kinds and ports of marketroast.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Process exit statuses, one per error kind.
const (
	ExitOK           = 0
	ExitUnexpected   = 1
	ExitConfigError  = 2
	ExitServiceError = 3
	ExitOutputError  = 4
	ExitArchiveError = 5
)

// Error codes shared by the domain error kinds.
const (
	CodeConfigLoad    = "CONFIG_LOAD_FAILED"
	CodeConfigMissing = "CONFIG_MISSING_KEYS"
	CodeConfigInvalid = "CONFIG_INVALID_VALUE"
	CodeReportService = "REPORT_SERVICE_ERROR"
	CodeOutputFile    = "OUTPUT_FILE_ERROR"
	CodeArchive       = "ARCHIVE_FAILED"
)

// ConfigError reports a configuration file that could not be read or that
// lacks required keys.
type ConfigError struct {
	Code    string
	Path    string
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: configuration file [%s] is missing required keys: %s",
			e.Code, e.Path, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: unable to load configuration file [%s] - %v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: unable to load configuration file [%s]", e.Code, e.Path)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewMissingKeysError creates a ConfigError listing keys in sorted order.
func NewMissingKeysError(path string, missing []string) *ConfigError {
	keys := append([]string(nil), missing...)
	sort.Strings(keys)
	return &ConfigError{Code: CodeConfigMissing, Path: path, Missing: keys}
}

// ServiceError is a failure signalled by the marketplace service, or a
// transport failure while talking to it (StatusCode 0).
type ServiceError struct {
	Message        string
	StatusCode     int
	ErrorCode      string
	ErrorType      string
	RequestID      string
	XML            string
	HeaderMetadata *ResponseHeaderMetadata
	Err            error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s: %s (status %d, code %s)", CodeReportService, msg, e.StatusCode, e.ErrorCode)
	}
	return fmt.Sprintf("%s: %s (status %d)", CodeReportService, msg, e.StatusCode)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// OutputError reports a local output file that could not be created,
// written or closed.
type OutputError struct {
	Path string
	Op   string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: failed to %s output file [%s] - %v", CodeOutputFile, e.Op, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// ArchiveError reports a failed upload of the retrieved report.
type ArchiveError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("%s: failed to archive report to s3://%s/%s - %v", CodeArchive, e.Bucket, e.Key, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to the process exit status of its kind.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		configErr  *ConfigError
		serviceErr *ServiceError
		outputErr  *OutputError
		archiveErr *ArchiveError
	)
	switch {
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.As(err, &serviceErr):
		return ExitServiceError
	case errors.As(err, &outputErr):
		return ExitOutputError
	case errors.As(err, &archiveErr):
		return ExitArchiveError
	default:
		return ExitUnexpected
	}
}

// ErrorKind returns a short label for metrics.
func ErrorKind(err error) string {
	switch ExitCode(err) {
	case ExitOK:
		return ""
	case ExitConfigError:
		return "config_error"
	case ExitServiceError:
		return "service_error"
	case ExitOutputError:
		return "output_error"
	case ExitArchiveError:
		return "archive_error"
	default:
		return "unexpected"
	}
}
