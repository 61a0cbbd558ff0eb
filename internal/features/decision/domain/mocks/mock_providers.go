package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rca-decider/internal/features/decision/domain"
)

// MockPolicy is a mock implementation of domain.Policy
type MockPolicy struct {
	mock.Mock
}

// Name mocks the Name method
func (m *MockPolicy) Name() string {
	args := m.Called()
	return args.String(0)
}

// Evaluate mocks the Evaluate method
func (m *MockPolicy) Evaluate(ctx context.Context) []domain.Action {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Action)
}

// SetThresholds mocks the SetThresholds method
func (m *MockPolicy) SetThresholds(unhealthyNodePercentage, minUnhealthyUnits int) error {
	args := m.Called(unhealthyNodePercentage, minUnhealthyUnits)
	return args.Error(0)
}

// Status mocks the Status method
func (m *MockPolicy) Status() domain.PolicyStatus {
	args := m.Called()
	return args.Get(0).(domain.PolicyStatus)
}

// MockAction is a mock implementation of domain.Action
type MockAction struct {
	mock.Mock
}

// Name mocks the Name method
func (m *MockAction) Name() string {
	args := m.Called()
	return args.String(0)
}

// Resource mocks the Resource method
func (m *MockAction) Resource() string {
	args := m.Called()
	return args.String(0)
}

// IsActionable mocks the IsActionable method
func (m *MockAction) IsActionable() bool {
	args := m.Called()
	return args.Bool(0)
}

// Summary mocks the Summary method
func (m *MockAction) Summary() domain.ActionSummary {
	args := m.Called()
	return args.Get(0).(domain.ActionSummary)
}

// MockActionExecutor is a mock implementation of domain.ActionExecutor
type MockActionExecutor struct {
	mock.Mock
}

// Name mocks the Name method
func (m *MockActionExecutor) Name() string {
	args := m.Called()
	return args.String(0)
}

// Execute mocks the Execute method
func (m *MockActionExecutor) Execute(ctx context.Context, summary domain.ActionSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
