package kubernetes

import (
	"context"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"rca-decider/internal/common"
	"rca-decider/internal/features/notifier/domain"
)

// SecretProvider reads webhook settings from Kubernetes secrets in one namespace
type SecretProvider struct {
	client    kubernetes.Interface
	namespace string
}

// NewSecretProvider creates a new Kubernetes secret provider
func NewSecretProvider(clientset kubernetes.Interface, namespace string) domain.SecretProvider {
	return &SecretProvider{
		client:    clientset,
		namespace: namespace,
	}
}

// GetSecretData returns the requested keys of a secret with surrounding whitespace
// removed. Keys that are absent or blank are left out. A missing secret is a
// NotFound error; other API failures are Unavailable.
func (p *SecretProvider) GetSecretData(ctx context.Context, secretName string, keys []string) (map[string]string, error) {
	if secretName == "" {
		return nil, common.InvalidInputError("secret name cannot be empty")
	}

	secret, err := p.client.CoreV1().Secrets(p.namespace).Get(ctx, secretName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, common.NotFoundError("secret %s/%s", p.namespace, secretName)
		}
		return nil, common.UnavailableError("reading secret %s/%s: %v", p.namespace, secretName, err)
	}

	selected := make(map[string]string, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(string(secret.Data[key]))
		if value == "" {
			value = strings.TrimSpace(secret.StringData[key])
		}
		if value != "" {
			selected[key] = value
		}
	}
	return selected, nil
}
