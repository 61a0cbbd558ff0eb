package domain

import (
	"context"

	v1 "k8s.io/api/core/v1"
)

// Provider answers cluster membership queries. Implementations query the source of truth on
// every call; callers must not cache the result across evaluations.
type Provider interface {
	// AllClusterInstances returns the current cluster members
	AllClusterInstances(ctx context.Context) ([]Instance, error)
}

// KubernetesClient defines the minimum Kubernetes client functionality required by topology
type KubernetesClient interface {
	// ListNodes returns nodes matching a label selector
	ListNodes(ctx context.Context, labelSelector string) ([]v1.Node, error)

	// GetPods returns pods that match a specific namespace and label selector
	GetPods(ctx context.Context, namespace, labelSelector string) ([]v1.Pod, error)
}
