package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

// MockS3Client is a mock implementation of the S3 PutObject API
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)

	var out *s3.PutObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.PutObjectOutput)
	}

	return out, args.Error(1)
}
