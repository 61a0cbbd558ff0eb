package topology

import (
	"log/slog"

	"k8s.io/client-go/kubernetes"

	"rca-decider/cmd/app"
	"rca-decider/internal/features/topology/service"
)

// NewProvider creates the topology service backed by the Kubernetes API
func NewProvider(config *app.Config, kubeClient kubernetes.Interface, logger *slog.Logger) *service.Service {
	return service.NewService(
		service.NewKubernetesClient(kubeClient.CoreV1()),
		service.Config{
			NodeSelector:      config.Topology.NodeSelector,
			ReadyOnly:         config.Topology.ReadyOnly,
			ExporterNamespace: config.Scrape.ExporterNamespace,
			ExporterSelector:  config.Scrape.ExporterLabel,
		},
		logger,
	)
}
