package service

import (
	"context"
	"fmt"

	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"

	"rca-decider/internal/common"
	"rca-decider/internal/features/topology/domain"
)

// kubernetesClient implements the domain.KubernetesClient interface
type kubernetesClient struct {
	coreClient typedcorev1.CoreV1Interface
}

// NewKubernetesClient creates a new Kubernetes client that implements the domain interface
func NewKubernetesClient(coreClient typedcorev1.CoreV1Interface) domain.KubernetesClient {
	return &kubernetesClient{
		coreClient: coreClient,
	}
}

// ListNodes lists nodes matching labelSelector
func (k *kubernetesClient) ListNodes(ctx context.Context, labelSelector string) ([]v1.Node, error) {
	if err := common.CheckContext(ctx, "listing nodes"); err != nil {
		return nil, err
	}

	nodes, err := k.coreClient.Nodes().List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodes.Items, nil
}

// GetPods retrieves pods matching specific namespace and label selector
func (k *kubernetesClient) GetPods(ctx context.Context, namespace, labelSelector string) ([]v1.Pod, error) {
	if err := common.CheckContext(ctx, "listing pods"); err != nil {
		return nil, err
	}

	pods, err := k.coreClient.Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}
	return pods.Items, nil
}
