package domain

import (
	metricDomain "rca-decider/internal/features/metric/domain"
)

// Instance describes one cluster member as seen by the orchestrator
type Instance struct {
	// NodeID is the Kubernetes node name
	NodeID string
	// HostAddress is the node's internal IP
	HostAddress string
	// Ready mirrors the node's Ready condition
	Ready bool
}

// Key returns the identity used by per-node windows
func (i Instance) Key() metricDomain.NodeKey {
	return metricDomain.NodeKey{NodeID: i.NodeID, HostAddress: i.HostAddress}
}
