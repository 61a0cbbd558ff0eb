package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	v1 "k8s.io/api/core/v1"

	"rca-decider/internal/common"
	metricDomain "rca-decider/internal/features/metric/domain"
	"rca-decider/internal/features/topology/domain"
)

// Config controls how cluster members and exporter pods are discovered
type Config struct {
	NodeSelector      string
	ReadyOnly         bool
	ExporterNamespace string
	ExporterSelector  string
}

// Service implements domain.Provider and the metric TargetLister on top of the Kubernetes API
type Service struct {
	client domain.KubernetesClient
	config Config
	logger *slog.Logger
}

// NewService creates a topology service
func NewService(client domain.KubernetesClient, config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Service{
		client: client,
		config: config,
		logger: logger.With("component", "topology"),
	}
}

// AllClusterInstances lists the current cluster members. Nodes without an internal address are skipped.
func (s *Service) AllClusterInstances(ctx context.Context) ([]domain.Instance, error) {
	nodes, err := s.client.ListNodes(ctx, s.config.NodeSelector)
	if err != nil {
		return nil, common.UnavailableError("cluster topology: %v", err)
	}

	instances := make([]domain.Instance, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		address := internalAddress(node)
		if address == "" {
			s.logger.Debug("skipping node without internal address", "node", node.Name)
			continue
		}

		ready := isNodeReady(node)
		if s.config.ReadyOnly && !ready {
			s.logger.Debug("skipping node that is not ready", "node", node.Name)
			continue
		}

		instances = append(instances, domain.Instance{
			NodeID:      node.Name,
			HostAddress: address,
			Ready:       ready,
		})
	}

	sort.Slice(instances, func(i, j int) bool {
		return instances[i].NodeID < instances[j].NodeID
	})
	return instances, nil
}

// ScrapeTargets maps running exporter pods onto the cluster members they report for
func (s *Service) ScrapeTargets(ctx context.Context) ([]metricDomain.ScrapeTarget, error) {
	instances, err := s.AllClusterInstances(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.Instance, len(instances))
	for _, instance := range instances {
		byName[instance.NodeID] = instance
	}

	pods, err := s.client.GetPods(ctx, s.config.ExporterNamespace, s.config.ExporterSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to list exporter pods: %w", err)
	}

	return s.processExporterPods(pods, byName), nil
}

// processExporterPods keeps running pods with an IP that sit on a known member
func (s *Service) processExporterPods(pods []v1.Pod, members map[string]domain.Instance) []metricDomain.ScrapeTarget {
	targets := make([]metricDomain.ScrapeTarget, 0, len(pods))
	for i := range pods {
		pod := &pods[i]
		if pod.Status.Phase != v1.PodRunning || pod.Status.PodIP == "" {
			continue
		}

		instance, ok := members[pod.Spec.NodeName]
		if !ok {
			s.logger.Debug("exporter pod on unknown node",
				"pod", pod.Name,
				"node", pod.Spec.NodeName)
			continue
		}

		targets = append(targets, metricDomain.ScrapeTarget{
			Node:    instance.Key(),
			PodName: pod.Name,
			IP:      pod.Status.PodIP,
		})
	}
	return targets
}

func internalAddress(node *v1.Node) string {
	for _, addr := range node.Status.Addresses {
		if addr.Type == v1.NodeInternalIP {
			return addr.Address
		}
	}
	return ""
}

func isNodeReady(node *v1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == v1.NodeReady {
			return cond.Status == v1.ConditionTrue
		}
	}
	return false
}
