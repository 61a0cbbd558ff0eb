package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
)

// MockHTTPClient is a mock implementation of domain.HTTPClientInterface
type MockHTTPClient struct {
	mock.Mock
}

// Request mocks the Request method
func (m *MockHTTPClient) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	args := m.Called(ctx, method, url, body, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// ReadResponseBody mocks the ReadResponseBody method
func (m *MockHTTPClient) ReadResponseBody(resp *http.Response) ([]byte, error) {
	args := m.Called(resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockSecretProvider is a mock implementation of domain.SecretProvider
type MockSecretProvider struct {
	mock.Mock
}

// GetSecretData mocks the GetSecretData method
func (m *MockSecretProvider) GetSecretData(ctx context.Context, secretName string, keys []string) (map[string]string, error) {
	args := m.Called(ctx, secretName, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockNotifier is a mock implementation of domain.Notifier
type MockNotifier struct {
	mock.Mock
}

// Notify mocks the Notify method
func (m *MockNotifier) Notify(ctx context.Context, payload interface{}) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
