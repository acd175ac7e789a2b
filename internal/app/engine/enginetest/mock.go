package enginetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"meetscribe/internal/app/engine"
)

// MockEngine is a testify mock of engine.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Submit(ctx context.Context, req engine.SubmitRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Fetch(ctx context.Context, externalJobID string) (*engine.Result, error) {
	args := m.Called(ctx, externalJobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}

func (m *MockEngine) Endpoint() string {
	return "mock://engine"
}
