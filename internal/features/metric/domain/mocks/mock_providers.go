package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rca-decider/internal/features/metric/domain"
)

// MockTargetLister is a mock implementation of domain.TargetLister
type MockTargetLister struct {
	mock.Mock
}

// ScrapeTargets mocks the ScrapeTargets method
func (m *MockTargetLister) ScrapeTargets(ctx context.Context) ([]domain.ScrapeTarget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScrapeTarget), args.Error(1)
}

// MockFetcher is a mock implementation of domain.Fetcher
type MockFetcher struct {
	mock.Mock
}

// Fetch mocks the Fetch method
func (m *MockFetcher) Fetch(ctx context.Context, target domain.ScrapeTarget) (string, error) {
	args := m.Called(ctx, target)
	return args.String(0), args.Error(1)
}

// MockSummarySource is a mock implementation of domain.SummarySource
type MockSummarySource struct {
	mock.Mock
}

// Take mocks the Take method
func (m *MockSummarySource) Take(resource string) (*domain.ClusterSummary, bool) {
	args := m.Called(resource)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ClusterSummary), args.Bool(1)
}
