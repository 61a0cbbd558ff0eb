package domain

import (
	"context"
	"net/http"
)

// SecretProvider defines the interface for retrieving secrets
type SecretProvider interface {
	// GetSecretData retrieves specific keys from a secret
	GetSecretData(ctx context.Context, secretName string, keys []string) (map[string]string, error)
}

// HTTPClientInterface defines the contract for HTTP clients
type HTTPClientInterface interface {
	// Request makes an HTTP request with the specified method, URL, body, and headers
	Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error)

	// ReadResponseBody reads and closes the response body
	ReadResponseBody(resp *http.Response) ([]byte, error)
}

// Notifier posts a payload to an external channel
type Notifier interface {
	// Notify renders payload as a webhook message and delivers it
	Notify(ctx context.Context, payload interface{}) error
}
