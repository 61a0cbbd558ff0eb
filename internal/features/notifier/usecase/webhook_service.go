package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"rca-decider/internal/common"
	"rca-decider/internal/features/notifier/domain"
)

// WebhookServiceConfig holds the configuration for the webhook service
type WebhookServiceConfig struct {
	// URL is used as-is when set; otherwise it is read from SecretName/URLKey
	URL        string
	SecretName string
	URLKey     string
	UserAgent  string

	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// WebhookService posts JSON payloads to a Slack-compatible incoming webhook
type WebhookService struct {
	config         WebhookServiceConfig
	secretProvider domain.SecretProvider
	httpClient     domain.HTTPClientInterface
	logger         *slog.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	config WebhookServiceConfig,
	secretProvider domain.SecretProvider,
	httpClient domain.HTTPClientInterface,
	logger *slog.Logger,
) *WebhookService {
	if httpClient == nil {
		panic("HTTP client cannot be nil")
	}
	if config.URL == "" && secretProvider == nil {
		panic("secret provider cannot be nil without a static webhook URL")
	}
	if logger == nil {
		logger = common.NopLogger()
	}

	return &WebhookService{
		config:         config,
		secretProvider: secretProvider,
		httpClient:     httpClient,
		logger:         logger.With("component", "webhook"),
	}
}

// Notify renders payload as indented JSON inside {"text": ...} and posts it.
// Only HTTP 200 counts as delivered; 4xx responses are not retried.
func (s *WebhookService) Notify(ctx context.Context, payload interface{}) error {
	if err := common.CheckContext(ctx, "webhook notify"); err != nil {
		return err
	}

	webhookURL, err := s.resolveURL(ctx)
	if err != nil {
		return err
	}

	body, err := renderMessage(payload)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if s.config.UserAgent != "" {
		headers["User-Agent"] = s.config.UserAgent
	}

	attempt := 0
	operation := func() error {
		attempt++
		resp, err := s.httpClient.Request(ctx, http.MethodPost, webhookURL, body, headers)
		if err != nil {
			if common.IsContextCanceled(ctx.Err()) {
				return backoff.Permanent(err)
			}
			return fmt.Errorf("webhook request failed: %w", err)
		}

		respBody, readErr := s.httpClient.ReadResponseBody(resp)
		if resp.StatusCode == http.StatusOK {
			return nil
		}

		statusErr := fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if readErr != nil {
			statusErr = fmt.Errorf("webhook returned status %d: %w", resp.StatusCode, readErr)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(statusErr)
		}
		return statusErr
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("webhook delivery failed, retrying",
			"attempt", attempt,
			"retryIn", wait,
			"error", err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return common.UnavailableError("webhook delivery after %d attempts: %v", attempt, err)
	}

	s.logger.Debug("webhook delivered", "attempts", attempt)
	return nil
}

func (s *WebhookService) resolveURL(ctx context.Context) (string, error) {
	if s.config.URL != "" {
		return strings.TrimSpace(s.config.URL), nil
	}

	secretData, err := s.secretProvider.GetSecretData(ctx, s.config.SecretName, []string{s.config.URLKey})
	if err != nil {
		return "", fmt.Errorf("failed to get webhook URL from secret: %w", err)
	}

	webhookURL, exists := secretData[s.config.URLKey]
	if !exists || strings.TrimSpace(webhookURL) == "" {
		return "", common.NotFoundError("webhook URL key '%s' in secret %s", s.config.URLKey, s.config.SecretName)
	}
	return strings.TrimSpace(webhookURL), nil
}

func (s *WebhookService) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.config.InitialInterval > 0 {
		b.InitialInterval = s.config.InitialInterval
	}
	b.MaxElapsedTime = s.config.MaxElapsedTime
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = 30 * time.Second
	}
	return b
}

// renderMessage wraps the pretty-printed payload as a webhook text message
func renderMessage(payload interface{}) ([]byte, error) {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	body, err := json.Marshal(domain.WebhookMessage{Text: string(pretty)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook message: %w", err)
	}
	return body, nil
}
