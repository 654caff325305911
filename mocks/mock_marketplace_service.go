// Package mocks provides testify mocks of the domain ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"marketroast/internal/domain"
)

// MockMarketplaceService is a mock implementation of domain.MarketplaceService
type MockMarketplaceService struct {
	mock.Mock
}

func (m *MockMarketplaceService) GetReport(ctx context.Context, req *domain.ReportRequest) (*domain.GetReportResponse, error) {
	args := m.Called(ctx, req)

	var resp *domain.GetReportResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*domain.GetReportResponse)
	}

	return resp, args.Error(1)
}
