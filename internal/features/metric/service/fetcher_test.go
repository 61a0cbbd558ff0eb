package service

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca-decider/internal/common"
	"rca-decider/internal/features/metric/domain"
)

func newTestTarget(t *testing.T, handler http.HandlerFunc) (*NodeMetricsFetcher, domain.ScrapeTarget) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	host, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	fetcher := NewNodeMetricsFetcher(2*time.Second, port, "/metrics", nil)
	target := domain.ScrapeTarget{
		Node: domain.NodeKey{NodeID: "data-0", HostAddress: host},
		IP:   host,
	}
	return fetcher, target
}

func TestFetchSuccess(t *testing.T) {
	fetcher, target := newTestTarget(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metrics", r.URL.Path)
		_, _ = w.Write([]byte("up 1\n"))
	})

	body, err := fetcher.Fetch(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, "up 1\n", body)
}

func TestFetchNonOK(t *testing.T) {
	fetcher, target := newTestTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("warming up"))
	})

	_, err := fetcher.Fetch(context.Background(), target)
	require.Error(t, err)
	assert.True(t, common.IsMetricsUnavailableError(err))
	assert.Contains(t, err.Error(), "warming up")
}

func TestFetchCanceledContext(t *testing.T) {
	fetcher, target := newTestTarget(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("up 1\n"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, target)
	require.Error(t, err)
	assert.True(t, common.IsContextCanceled(err))
}
