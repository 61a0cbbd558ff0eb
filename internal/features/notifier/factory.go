package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"

	decisionDomain "rca-decider/internal/features/decision/domain"
	"rca-decider/internal/features/notifier/adapter/http"
	ks "rca-decider/internal/features/notifier/adapter/kubernetes"
	"rca-decider/internal/features/notifier/domain"
	"rca-decider/internal/features/notifier/usecase"
)

// Config holds the configuration for the notifier package
type Config struct {
	Namespace      string
	SecretName     string
	URLKey         string
	WebhookURL     string
	UserAgent      string
	Timeout        time.Duration
	MaxElapsedTime time.Duration
}

// Services contains the services provided by the notifier package
type Services struct {
	Notifier domain.Notifier
}

// NewNotifierServices creates the webhook notifier. The clientset is only needed
// when the webhook URL is read from a secret.
func NewNotifierServices(clientset kubernetes.Interface, config Config, logger *slog.Logger) (*Services, error) {
	if config.WebhookURL == "" {
		if clientset == nil {
			return nil, fmt.Errorf("kubernetes client cannot be nil when the webhook URL comes from a secret")
		}
		if config.SecretName == "" || config.URLKey == "" {
			return nil, fmt.Errorf("webhook URL or secret name and key must be configured")
		}
	}

	httpClientConfig := http.DefaultClientConfig()
	if config.Timeout > 0 {
		httpClientConfig.Timeout = config.Timeout
	}
	if config.UserAgent != "" {
		httpClientConfig.UserAgent = config.UserAgent
	}
	httpClient, err := http.NewClient(httpClientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	var secretProvider domain.SecretProvider
	if clientset != nil {
		secretProvider = ks.NewSecretProvider(clientset, config.Namespace)
	}

	webhookService := usecase.NewWebhookService(usecase.WebhookServiceConfig{
		URL:            config.WebhookURL,
		SecretName:     config.SecretName,
		URLKey:         config.URLKey,
		UserAgent:      config.UserAgent,
		MaxElapsedTime: config.MaxElapsedTime,
	}, secretProvider, httpClient, logger)

	return &Services{
		Notifier: webhookService,
	}, nil
}

// ActionExecutor posts emitted actions through a Notifier
type ActionExecutor struct {
	notifier domain.Notifier
}

// NewActionExecutor adapts a Notifier to the decision executor contract
func NewActionExecutor(notifier domain.Notifier) *ActionExecutor {
	return &ActionExecutor{notifier: notifier}
}

// Name identifies the executor in logs
func (e *ActionExecutor) Name() string {
	return "webhook"
}

// Execute posts the action summary
func (e *ActionExecutor) Execute(ctx context.Context, summary decisionDomain.ActionSummary) error {
	return e.notifier.Notify(ctx, summary)
}
