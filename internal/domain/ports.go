package domain

import (
	"context"
	"time"
)

// MarketplaceService is the remote marketplace web service.
type MarketplaceService interface {
	// GetReport streams the report identified by req.ReportID into
	// req.Output. Failures reported by the service are *ServiceError.
	GetReport(ctx context.Context, req *ReportRequest) (*GetReportResponse, error)
}

// Credentials identify the caller to the marketplace service.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// ClientSettings is everything needed to construct a MarketplaceService.
type ClientSettings struct {
	ServiceURL         string
	Credentials        Credentials
	ApplicationName    string
	ApplicationVersion string

	// Timeout bounds the whole call. Zero means no timeout.
	Timeout time.Duration
}

// ClientFactory builds a MarketplaceService from settings.
type ClientFactory func(settings ClientSettings) (MarketplaceService, error)

// ReportArchiver copies a retrieved report to long-term storage.
type ReportArchiver interface {
	// Archive uploads the file at localPath and returns its location.
	Archive(ctx context.Context, localPath, reportID string) (string, error)
}
