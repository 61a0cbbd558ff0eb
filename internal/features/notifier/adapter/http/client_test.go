package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper implements the http.RoundTripper interface for testing
type mockRoundTripper struct {
	response *http.Response
	err      error
	request  *http.Request
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.request = req
	return m.response, m.err
}

// trackingBody records whether Close was called
type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDefaultClientConfig(t *testing.T) {
	config := DefaultClientConfig()

	assert.Equal(t, 10*time.Second, config.Timeout, "Default timeout should be 10 seconds")
	assert.False(t, config.InsecureSkipVerify, "InsecureSkipVerify should be false by default")
	assert.True(t, config.EnableHTTP2, "EnableHTTP2 should be true by default")
	assert.Equal(t, DefaultUserAgent, config.UserAgent)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(DefaultClientConfig())
	require.NoError(t, err, "Creating client with default config should not fail")
	assert.NotNil(t, client.client, "HTTP client should not be nil")

	customClient, err := NewClient(ClientConfig{
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
	})
	require.NoError(t, err, "Creating client with custom config should not fail")
	assert.Equal(t, 5*time.Second, customClient.client.Timeout)
	assert.Equal(t, DefaultUserAgent, customClient.userAgent, "an empty user agent falls back to the default")
}

func TestRequest(t *testing.T) {
	mockResp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("ok")),
	}
	transport := &mockRoundTripper{response: mockResp}

	client := &Client{
		client:    &http.Client{Transport: transport},
		userAgent: DefaultUserAgent,
	}

	resp, err := client.Request(
		context.Background(),
		http.MethodPost,
		"https://hooks.example.com/services/T000",
		[]byte(`{"text":"hi"}`),
		map[string]string{"User-Agent": "rca-decider"},
	)

	require.NoError(t, err, "Request should not return an error")
	assert.Equal(t, mockResp, resp, "Response should match mock response")
	require.NotNil(t, transport.request)
	assert.Equal(t, "application/json", transport.request.Header.Get("Content-Type"))
	assert.Equal(t, "rca-decider", transport.request.Header.Get("User-Agent"))

	_, err = client.Request(context.Background(), http.MethodPost, "https://hooks.example.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, transport.request.Header.Get("User-Agent"))

	transport.err = assert.AnError
	_, err = client.Request(context.Background(), http.MethodPost, "https://hooks.example.com", nil, nil)
	assert.Error(t, err, "Transport errors should be returned")
}

func TestRequestAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"text":"x"}`, string(body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{Timeout: time.Second})
	require.NoError(t, err)

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, []byte(`{"text":"x"}`), nil)
	require.NoError(t, err)

	body, err := client.ReadResponseBody(resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestReadResponseBody(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewBufferString(`{"status":"success"}`)}
	resp := &http.Response{StatusCode: http.StatusOK, Body: body}

	client := &Client{client: &http.Client{}, userAgent: DefaultUserAgent}

	got, err := client.ReadResponseBody(resp)
	require.NoError(t, err, "ReadResponseBody should not return an error")
	assert.Equal(t, `{"status":"success"}`, string(got))
	assert.True(t, body.closed, "Body should be closed after reading")

	_, err = client.ReadResponseBody(nil)
	assert.Error(t, err, "ReadResponseBody should return an error for nil response")
}

func TestReadResponseBodyCapsLargeReplies(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewReader(bytes.Repeat([]byte("x"), MaxResponseBodyBytes+100))}
	client := &Client{client: &http.Client{}, userAgent: DefaultUserAgent}

	got, err := client.ReadResponseBody(&http.Response{StatusCode: http.StatusBadGateway, Body: body})
	require.NoError(t, err)
	assert.Len(t, got, MaxResponseBodyBytes)
	assert.True(t, body.closed)
}
