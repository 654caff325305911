package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketroast/internal/config"
	"marketroast/internal/domain"
	obmocks "marketroast/internal/observability/mocks"
	"marketroast/internal/observability/types"
	"marketroast/mocks"
)

func writeReport(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestArchiver_Archive(t *testing.T) {
	t.Run("uploads under prefix and report ID", func(t *testing.T) {
		mockClient := &mocks.MockS3Client{}
		mockMetrics := &obmocks.MockMetrics{}

		mockMetrics.On("StartOperation", "archive").Return()
		mockMetrics.On("EndOperation", "archive").Return()
		mockMetrics.On("RecordDuration", "archive", mock.AnythingOfType("float64")).Return()
		mockMetrics.On("RecordSuccess", "archive").Return()
		mockMetrics.On("RecordFileSize", "archive", int64(11)).Return()

		var uploaded string
		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.Bucket) == "reports" &&
				aws.ToString(in.Key) == "mws/98765/report.txt" &&
				aws.ToInt64(in.ContentLength) == 11 &&
				in.Metadata["report-id"] == "98765"
		})).Run(func(args mock.Arguments) {
			body, err := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
			require.NoError(t, err)
			uploaded = string(body)
		}).Return(&s3.PutObjectOutput{}, nil)

		archiver := NewArchiverWithClient(mockClient, config.ArchiveConfig{Bucket: "reports", Prefix: "mws"},
			obmocks.NewQuietLogger(), mockMetrics)

		location, err := archiver.Archive(context.Background(), writeReport(t, "hello world"), "98765")

		require.NoError(t, err)
		assert.Equal(t, "s3://reports/mws/98765/report.txt", location)
		assert.Equal(t, "hello world", uploaded)
		mockClient.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("API error", func(t *testing.T) {
		mockClient := &mocks.MockS3Client{}
		mockLogger := obmocks.NewQuietLogger()
		mockMetrics := obmocks.NewQuietMetrics()

		apiErr := &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
		mockClient.On("PutObject", mock.Anything, mock.Anything).Return(nil, apiErr)

		archiver := NewArchiverWithClient(mockClient, config.ArchiveConfig{Bucket: "reports"}, mockLogger, mockMetrics)

		_, err := archiver.Archive(context.Background(), writeReport(t, "x"), "98765")

		var archiveErr *domain.ArchiveError
		require.True(t, errors.As(err, &archiveErr))
		assert.Equal(t, "reports", archiveErr.Bucket)
		assert.Equal(t, "98765/report.txt", archiveErr.Key)
		assert.ErrorIs(t, err, apiErr)
		assert.Equal(t, domain.ExitArchiveError, domain.ExitCode(err))

		mockMetrics.AssertCalled(t, "RecordError", "archive", "api_error")
		mockLogger.AssertCalled(t, "Error", mock.Anything, "Failed to archive report", mock.Anything,
			mock.MatchedBy(func(f types.Fields) bool { return f["aws_error_code"] == "AccessDenied" }))
	})

	t.Run("missing local file", func(t *testing.T) {
		mockClient := &mocks.MockS3Client{}
		mockMetrics := obmocks.NewQuietMetrics()

		archiver := NewArchiverWithClient(mockClient, config.ArchiveConfig{Bucket: "reports"},
			obmocks.NewQuietLogger(), mockMetrics)

		_, err := archiver.Archive(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), "98765")

		assert.ErrorIs(t, err, os.ErrNotExist)
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
		mockMetrics.AssertCalled(t, "RecordError", "archive", "open_error")
	})
}

func TestNewArchiver(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	t.Run("custom endpoint", func(t *testing.T) {
		archiver, err := NewArchiver(context.Background(), config.ArchiveConfig{
			Bucket:   "reports",
			Region:   "us-east-1",
			Endpoint: "http://localhost:4566",
		}, obmocks.NewQuietLogger(), obmocks.NewQuietMetrics())

		require.NoError(t, err)
		assert.NotNil(t, archiver.client)
	})

	t.Run("archiving disabled", func(t *testing.T) {
		_, err := NewArchiver(context.Background(), config.ArchiveConfig{}, obmocks.NewQuietLogger(), obmocks.NewQuietMetrics())

		assert.Error(t, err)
	})
}
