package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rca-decider/internal/features/topology/domain"
)

// MockProvider is a mock implementation of domain.Provider
type MockProvider struct {
	mock.Mock
}

// AllClusterInstances mocks the AllClusterInstances method
func (m *MockProvider) AllClusterInstances(ctx context.Context) ([]domain.Instance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instance), args.Error(1)
}
