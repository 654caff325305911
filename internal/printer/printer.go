// Package printer renders fetch outcomes as the fixed-layout text summary
// written to standard output.
package printer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"marketroast/internal/domain"
)

const rule = "============================================================================="

// Printer writes summaries to w.
type Printer struct {
	w io.Writer
}

// New creates a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintReport writes the summary of a successful fetch.
func (p *Printer) PrintReport(result *domain.FetchResult) error {
	var b strings.Builder
	resp := result.Response

	b.WriteString("GetReport Action Response\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("    GetReportResponse\n")
	b.WriteString("    GetReportResult\n")
	b.WriteString("            MD5Checksum\n")
	b.WriteString("                " + resp.Result.MD5Checksum + "\n")
	if resp.IsSetResponseMetadata() {
		b.WriteString("        ResponseMetadata\n")
		if resp.ResponseMetadata.IsSetRequestID() {
			b.WriteString("            RequestId\n")
			b.WriteString("                " + resp.ResponseMetadata.RequestID + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("Report\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "    %s (%d bytes)\n\n", result.OutputPath, result.BytesWritten)

	b.WriteString(resp.HeaderMetadata.String() + "\n\n")

	return p.flush(&b)
}

// PrintArchived writes where the report was archived.
func (p *Printer) PrintArchived(location string) error {
	var b strings.Builder
	b.WriteString("Archive\n")
	b.WriteString(rule + "\n\n")
	b.WriteString("    " + location + "\n\n")
	return p.flush(&b)
}

// PrintError writes the details of a failed fetch. Only *domain.ServiceError
// carries the status, code and request fields.
func (p *Printer) PrintError(err error) error {
	var b strings.Builder

	var svcErr *domain.ServiceError
	if !errors.As(err, &svcErr) {
		fmt.Fprintf(&b, "Error: %v\n", err)
		return p.flush(&b)
	}

	message := svcErr.Message
	if message == "" && svcErr.Err != nil {
		message = svcErr.Err.Error()
	}

	fmt.Fprintf(&b, "Caught Exception: %s\n", message)
	fmt.Fprintf(&b, "Response Status Code: %d\n", svcErr.StatusCode)
	fmt.Fprintf(&b, "Error Code: %s\n", svcErr.ErrorCode)
	fmt.Fprintf(&b, "Error Type: %s\n", svcErr.ErrorType)
	fmt.Fprintf(&b, "Request ID: %s\n", svcErr.RequestID)
	b.WriteString("XML: " + svcErr.XML)
	if !strings.HasSuffix(svcErr.XML, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "ResponseHeaderMetadata: %s\n", svcErr.HeaderMetadata)

	return p.flush(&b)
}

// PrintConfigError writes why the configuration file at path was rejected.
func (p *Printer) PrintConfigError(path string, err error) error {
	var b strings.Builder

	var cfgErr *domain.ConfigError
	errors.As(err, &cfgErr)

	switch {
	case cfgErr != nil && len(cfgErr.Missing) > 0:
		fmt.Fprintf(&b, "Configuration file [%s] is missing required keys:\n", path)
		for _, key := range cfgErr.Missing {
			fmt.Fprintf(&b, "    %s\n", key)
		}
	case cfgErr != nil && cfgErr.Code == domain.CodeConfigInvalid:
		fmt.Fprintf(&b, "Configuration file [%s] has an invalid value: %v\n", path, cfgErr.Err)
	default:
		fmt.Fprintf(&b, "Unable to load configuration file from [%s]. Check that the file exists and that "+
			"file and directory permissions are set correctly.\n", path)
		cause := err
		if cfgErr != nil && cfgErr.Err != nil {
			cause = cfgErr.Err
		}
		if cause != nil {
			fmt.Fprintf(&b, "Cause: %v\n", cause)
		}
	}

	return p.flush(&b)
}

func (p *Printer) flush(b *strings.Builder) error {
	if _, err := io.WriteString(p.w, b.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
