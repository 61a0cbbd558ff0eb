package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"rca-decider/internal/common"
	"rca-decider/internal/features/metric/domain"
)

// NodeMetricsFetcher implements domain.Fetcher over plain HTTP GET
type NodeMetricsFetcher struct {
	timeout time.Duration
	port    int
	path    string
	logger  *slog.Logger
}

// NewNodeMetricsFetcher creates a fetcher scraping http://<target ip>:port/path
func NewNodeMetricsFetcher(timeout time.Duration, port int, path string, logger *slog.Logger) *NodeMetricsFetcher {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &NodeMetricsFetcher{
		timeout: timeout,
		port:    port,
		path:    path,
		logger:  logger,
	}
}

// Fetch retrieves the exposition text from target. The client and connection live only for
// the duration of this call.
func (f *NodeMetricsFetcher) Fetch(ctx context.Context, target domain.ScrapeTarget) (string, error) {
	client := &http.Client{Timeout: f.timeout}
	url := fmt.Sprintf("http://%s%s", net.JoinHostPort(target.IP, strconv.Itoa(f.port)), f.path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get metrics from %s: %w", target.IP, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			f.logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", common.NewMetricsUnavailableError(target.Node.NodeID,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	return string(body), nil
}
