package mws

import (
	"encoding/xml"
	"net/http"
	"strconv"

	"marketroast/internal/domain"
)

// Response headers returned by the service on every call.
const (
	headerRequestID       = "x-mws-request-id"
	headerResponseContext = "x-mws-response-context"
	headerTimestamp       = "x-mws-timestamp"
	headerQuotaMax        = "x-mws-quota-max"
	headerQuotaRemaining  = "x-mws-quota-remaining"
	headerQuotaResetsOn   = "x-mws-quota-resetsOn"
	headerContentMD5      = "Content-MD5"
)

// errorResponse is the XML body of a failed call:
//
//	<ErrorResponse>
//	  <Error><Type/><Code/><Message/></Error>
//	  <RequestID/>
//	</ErrorResponse>
type errorResponse struct {
	XMLName   xml.Name    `xml:"ErrorResponse"`
	Errors    []errorBody `xml:"Error"`
	RequestID string      `xml:"RequestID"`
}

type errorBody struct {
	Type    string `xml:"Type"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

func parseHeaderMetadata(h http.Header) *domain.ResponseHeaderMetadata {
	return &domain.ResponseHeaderMetadata{
		RequestID:       h.Get(headerRequestID),
		ResponseContext: h.Get(headerResponseContext),
		Timestamp:       h.Get(headerTimestamp),
		QuotaMax:        parseQuota(h.Get(headerQuotaMax)),
		QuotaRemaining:  parseQuota(h.Get(headerQuotaRemaining)),
		QuotaResetsOn:   h.Get(headerQuotaResetsOn),
	}
}

func parseQuota(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// newServiceError maps a non-200 response to a ServiceError. A body that is
// not an ErrorResponse document still yields an error carrying the status
// and the raw body.
func newServiceError(status int, body []byte, meta *domain.ResponseHeaderMetadata) *domain.ServiceError {
	svcErr := &domain.ServiceError{
		Message:        http.StatusText(status),
		StatusCode:     status,
		RequestID:      meta.RequestID,
		XML:            string(body),
		HeaderMetadata: meta,
	}
	if svcErr.Message == "" {
		svcErr.Message = "unexpected response status " + strconv.Itoa(status)
	}

	var parsed errorResponse
	if err := xml.Unmarshal(body, &parsed); err != nil || len(parsed.Errors) == 0 {
		return svcErr
	}

	first := parsed.Errors[0]
	if first.Message != "" {
		svcErr.Message = first.Message
	}
	svcErr.ErrorCode = first.Code
	svcErr.ErrorType = first.Type
	if parsed.RequestID != "" {
		svcErr.RequestID = parsed.RequestID
	}
	return svcErr
}
