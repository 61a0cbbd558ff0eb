package domain

import (
	"time"
)

// Action kinds emitted by scale-up policies
const (
	ActionHeapSizeIncrease  = "HeapSizeIncrease"
	ActionCacheSizeIncrease = "CacheSizeIncrease"
)

// ActionSummary is the serializable description of a proposed remediation
type ActionSummary struct {
	Name                string    `json:"name"`
	Resource            string    `json:"resource"`
	Policy              string    `json:"policy"`
	Reason              string    `json:"reason"`
	UndersizedNodes     []string  `json:"undersizedNodes"`
	ClusterSize         int       `json:"clusterSize"`
	UnhealthyPercentage int       `json:"unhealthyPercentage"`
	Timestamp           time.Time `json:"timestamp"`
}

// Thresholds configure when a policy crosses into action
type Thresholds struct {
	// UnhealthyNodePercentage is the share of the cluster (0-100) that must be undersized
	UnhealthyNodePercentage int `json:"unhealthyNodePercentage"`
	// MinUnhealthyUnits is the window sum at which a node counts as undersized
	MinUnhealthyUnits int `json:"minUnhealthyUnits"`
}

// NodeWindow reports one tracked node and its current window sum
type NodeWindow struct {
	NodeID      string  `json:"nodeId"`
	HostAddress string  `json:"hostAddress"`
	Sum         float64 `json:"sum"`
}

// PolicyStatus is a point-in-time view of a policy's state
type PolicyStatus struct {
	Name          string       `json:"name"`
	Resource      string       `json:"resource"`
	Counter       int          `json:"counter"`
	EvalFrequency int          `json:"evalFrequency"`
	Window        string       `json:"window"`
	Thresholds    *Thresholds  `json:"thresholds,omitempty"`
	TrackedNodes  []NodeWindow `json:"trackedNodes"`
}
