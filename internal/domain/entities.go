package domain

import (
	"fmt"
	"io"
	"strconv"
)

// ReportRequest describes a single GetReport call.
// Output receives the report body as it streams in.
type ReportRequest struct {
	Merchant     string
	ReportID     string
	MWSAuthToken string
	Output       io.Writer
}

// GetReportResult carries the checksum announced by the service.
type GetReportResult struct {
	// MD5Checksum is the base64 Content-MD5 value of the report body.
	MD5Checksum string
}

// ResponseMetadata holds optional auxiliary fields of a successful response.
type ResponseMetadata struct {
	RequestID string
}

// IsSetRequestID reports whether the service returned a request identifier.
func (m *ResponseMetadata) IsSetRequestID() bool {
	return m != nil && m.RequestID != ""
}

// ResponseHeaderMetadata is the x-mws-* header block present on every
// response, successful or not.
type ResponseHeaderMetadata struct {
	RequestID       string
	ResponseContext string
	Timestamp       string
	QuotaMax        *float64
	QuotaRemaining  *float64
	QuotaResetsOn   string
}

func (h *ResponseHeaderMetadata) String() string {
	if h == nil {
		return "<none>"
	}
	return fmt.Sprintf(
		"requestId : %s, responseContext : %s, timestamp : %s, quotaMax : %s, quotaRemaining : %s, quotaResetsOn : %s",
		orNull(h.RequestID),
		orNull(h.ResponseContext),
		orNull(h.Timestamp),
		floatOrNull(h.QuotaMax),
		floatOrNull(h.QuotaRemaining),
		orNull(h.QuotaResetsOn),
	)
}

// GetReportResponse is the successful outcome of a GetReport call.
type GetReportResponse struct {
	Result           GetReportResult
	ResponseMetadata *ResponseMetadata
	HeaderMetadata   *ResponseHeaderMetadata
}

// IsSetResponseMetadata reports whether the response carries metadata.
func (r *GetReportResponse) IsSetResponseMetadata() bool {
	return r != nil && r.ResponseMetadata != nil
}

// FetchResult is what the report fetcher hands to the printer.
type FetchResult struct {
	Response     *GetReportResponse
	OutputPath   string
	BytesWritten int64
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

func floatOrNull(f *float64) string {
	if f == nil {
		return "null"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
