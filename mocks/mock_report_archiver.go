package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockReportArchiver is a mock implementation of domain.ReportArchiver
type MockReportArchiver struct {
	mock.Mock
}

func (m *MockReportArchiver) Archive(ctx context.Context, localPath, reportID string) (string, error) {
	args := m.Called(ctx, localPath, reportID)
	return args.String(0), args.Error(1)
}
