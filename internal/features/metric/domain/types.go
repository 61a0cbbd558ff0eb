package domain

import (
	"fmt"
	"time"
)

// NodeKey identifies a cluster member. It is comparable and used only as a map key.
type NodeKey struct {
	// NodeID is the node identifier reported by the cluster
	NodeID string
	// HostAddress is the node's network address
	HostAddress string
}

// String renders the key as id@address
func (k NodeKey) String() string {
	return fmt.Sprintf("%s@%s", k.NodeID, k.HostAddress)
}

// Observation is a timestamped scalar that a SlidingWindow can hold
type Observation interface {
	// Millis returns the observation time as epoch milliseconds
	Millis() int64
	// Amount returns the value added to the running sum
	Amount() float64
}

// SignalPoint is one observation, e.g. "this node was unhealthy at this instant"
type SignalPoint struct {
	// Timestamp is epoch milliseconds
	Timestamp int64
	// Value is typically 1.0 for a positive signal
	Value float64
}

// NewSignalPoint creates a point at t with the given value
func NewSignalPoint(t time.Time, value float64) SignalPoint {
	return SignalPoint{Timestamp: t.UnixMilli(), Value: value}
}

// Millis implements Observation
func (p SignalPoint) Millis() int64 { return p.Timestamp }

// Amount implements Observation
func (p SignalPoint) Amount() float64 { return p.Value }

// NodeResourceMetrics is one scrape of a node's resource gauges
type NodeResourceMetrics struct {
	// Node is the node the metrics were scraped from
	Node NodeKey
	// HeapUsedBytes is the current JVM heap usage
	HeapUsedBytes float64
	// HeapMaxBytes is the configured JVM heap capacity
	HeapMaxBytes float64
	// CacheSizes holds per-index cache sizes in bytes, keyed by cache type
	CacheSizes map[string][]float64
	// CacheMaxBytes holds the configured capacity per cache type
	CacheMaxBytes map[string]float64
	// ScrapedAt is when the scrape completed
	ScrapedAt time.Time
}

// ScrapeTarget is an endpoint exposing a node's resource metrics
type ScrapeTarget struct {
	// Node is the cluster member the endpoint reports for
	Node NodeKey
	// PodName is the exporter pod name
	PodName string
	// IP is the exporter pod address
	IP string
}
