package testutil

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"meetscribe/internal/app/upload"
)

// MockStorageService is a testify mock for upload.StorageService.
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) IssueCredential(ctx context.Context, userID, fileName, contentType string, size int64) (*upload.Credential, error) {
	args := m.Called(ctx, userID, fileName, contentType, size)
	if cred := args.Get(0); cred != nil {
		return cred.(*upload.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorageService) Consume(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func (m *MockStorageService) FetchAudio(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorageService) PurgeAudio(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
