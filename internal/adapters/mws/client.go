// Package mws is a minimal client for the Amazon Marketplace Web Service
// Reports API. It implements domain.MarketplaceService for the GetReport
// action only.
package mws

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"marketroast/internal/domain"
)

const (
	apiVersion      = "2009-01-01"
	timestampFormat = "2006-01-02T15:04:05Z"

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 1 << 20
)

// Config holds MWS client configuration
type Config struct {
	ServiceURL         string
	ApplicationName    string
	ApplicationVersion string

	// Timeout bounds a whole call, body included. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// DefaultConfig returns the default configuration for serviceURL.
func DefaultConfig(serviceURL string) Config {
	return Config{
		ServiceURL:         serviceURL,
		ApplicationName:    "MarketRoast",
		ApplicationVersion: "0.01",
	}
}

// Client implements domain.MarketplaceService over HTTP.
type Client struct {
	client      *http.Client
	config      Config
	endpoint    *url.URL
	credentials aws.CredentialsProvider
	userAgent   string
	now         func() time.Time
}

// NewClient creates a new MWS client. Requests are signed with the keys
// returned by credentials.
func NewClient(config Config, credentials aws.CredentialsProvider) (*Client, error) {
	if credentials == nil {
		return nil, errors.New("mws: credentials provider is required")
	}

	endpoint, err := url.Parse(config.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("mws: invalid service URL: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("mws: unsupported scheme in service URL %q", config.ServiceURL)
	}
	if endpoint.Host == "" {
		return nil, fmt.Errorf("mws: missing host in service URL %q", config.ServiceURL)
	}
	if endpoint.Path == "" {
		endpoint.Path = "/"
	}

	defaults := DefaultConfig(config.ServiceURL)
	if config.ApplicationName == "" {
		config.ApplicationName = defaults.ApplicationName
	}
	if config.ApplicationVersion == "" {
		config.ApplicationVersion = defaults.ApplicationVersion
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		client:      httpClient,
		config:      config,
		endpoint:    endpoint,
		credentials: credentials,
		userAgent:   userAgent(config.ApplicationName, config.ApplicationVersion),
		now:         time.Now,
	}, nil
}

func userAgent(name, version string) string {
	return fmt.Sprintf("%s/%s (Language=Go; Platform=%s/%s)", name, version, runtime.GOOS, runtime.GOARCH)
}

// GetReport implements domain.MarketplaceService. The report body is
// written to req.Output as it arrives and checked against the Content-MD5
// header once complete.
func (c *Client) GetReport(ctx context.Context, req *domain.ReportRequest) (*domain.GetReportResponse, error) {
	if req == nil || req.Output == nil {
		return nil, errors.New("mws: report request without output")
	}

	creds, err := c.credentials.Retrieve(ctx)
	if err != nil {
		return nil, &domain.ServiceError{Message: "failed to retrieve credentials", Err: err}
	}

	params := url.Values{}
	params.Set("Action", "GetReport")
	params.Set("Merchant", req.Merchant)
	params.Set("ReportId", req.ReportID)
	if req.MWSAuthToken != "" {
		params.Set("MWSAuthToken", req.MWSAuthToken)
	}
	params.Set("AWSAccessKeyId", creds.AccessKeyID)
	params.Set("Timestamp", c.now().UTC().Format(timestampFormat))
	params.Set("Version", apiVersion)
	params.Set("SignatureVersion", signatureVersion)
	params.Set("SignatureMethod", signatureMethod)
	params.Set("Signature", sign(stringToSign(http.MethodPost, c.endpoint, params), creds.SecretAccessKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(canonicalQuery(params)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &domain.ServiceError{Message: "GetReport request failed", Err: err}
	}
	defer resp.Body.Close()

	meta := parseHeaderMetadata(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, &domain.ServiceError{
				Message:        "failed to read error response",
				StatusCode:     resp.StatusCode,
				RequestID:      meta.RequestID,
				HeaderMetadata: meta,
				Err:            err,
			}
		}
		return nil, newServiceError(resp.StatusCode, body, meta)
	}

	hasher := md5.New()
	if _, err := io.Copy(io.MultiWriter(req.Output, hasher), resp.Body); err != nil {
		return nil, &domain.ServiceError{
			Message:        "failed to stream report body",
			StatusCode:     resp.StatusCode,
			RequestID:      meta.RequestID,
			HeaderMetadata: meta,
			Err:            err,
		}
	}

	received := resp.Header.Get(headerContentMD5)
	computed := base64.StdEncoding.EncodeToString(hasher.Sum(nil))
	if received != computed {
		return nil, &domain.ServiceError{
			Message:        fmt.Sprintf("received Content-MD5 = %q but computed Content-MD5 = %q", received, computed),
			StatusCode:     resp.StatusCode,
			RequestID:      meta.RequestID,
			HeaderMetadata: meta,
		}
	}

	result := &domain.GetReportResponse{
		Result:         domain.GetReportResult{MD5Checksum: received},
		HeaderMetadata: meta,
	}
	if meta.RequestID != "" {
		result.ResponseMetadata = &domain.ResponseMetadata{RequestID: meta.RequestID}
	}
	return result, nil
}
