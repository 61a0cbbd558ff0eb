package domain

import "time"

// Resource names used to key cluster summaries
const (
	ResourceHeap        = "heap"
	resourceCachePrefix = "cache:"
)

// CacheResource returns the summary key for a cache type, e.g. "cache:fielddata"
func CacheResource(cacheType string) string {
	return resourceCachePrefix + cacheType
}

// HotNodeSummary reports one node found unhealthy for a resource during a period
type HotNodeSummary struct {
	NodeID      string `json:"nodeId"`
	HostAddress string `json:"hostAddress"`
	// Measured and Capacity are in kilobytes
	Measured float64 `json:"measuredKB"`
	Capacity float64 `json:"capacityKB"`
}

// Key returns the node identity of the summary entry
func (s HotNodeSummary) Key() NodeKey {
	return NodeKey{NodeID: s.NodeID, HostAddress: s.HostAddress}
}

// ClusterSummary is one period's health result for a resource across the cluster
type ClusterSummary struct {
	Resource  string           `json:"resource"`
	Nodes     []HotNodeSummary `json:"nodes"`
	Timestamp time.Time        `json:"timestamp"`
}

// IsEmpty reports whether the summary carries no node entries
func (s *ClusterSummary) IsEmpty() bool {
	return s == nil || len(s.Nodes) == 0
}
