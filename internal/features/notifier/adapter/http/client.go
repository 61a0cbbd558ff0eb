package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

const (
	// DefaultUserAgent identifies webhook posts when the caller sets none
	DefaultUserAgent = "rca-decider-notifier"

	// MaxResponseBodyBytes caps how much of a webhook reply is kept for error messages
	MaxResponseBodyBytes = 64 << 10
)

// ClientConfig holds configuration for the webhook HTTP client
type ClientConfig struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	EnableHTTP2        bool
	UserAgent          string
}

// DefaultClientConfig returns the default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:     10 * time.Second,
		EnableHTTP2: true,
		UserAgent:   DefaultUserAgent,
	}
}

// Client posts webhook payloads. Every Request builds its own *http.Request;
// callers own the returned body and release it with ReadResponseBody.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a new HTTP client
func NewClient(config ClientConfig) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("failed to configure HTTP/2 transport: %w", err)
		}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		userAgent: userAgent,
	}, nil
}

// Request sends body to url. JSON content type and the client user agent apply
// unless headers override them.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post webhook: %w", err)
	}
	return resp, nil
}

// ReadResponseBody reads at most MaxResponseBodyBytes of the body, discards the
// rest so the connection can be reused, and closes it.
func (c *Client) ReadResponseBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return body, nil
}
