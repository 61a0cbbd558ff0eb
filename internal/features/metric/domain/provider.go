package domain

import "context"

// SummarySource hands out the latest cluster summary per resource
type SummarySource interface {
	// Take returns the most recent unconsumed summary for resource. A summary is handed
	// out at most once; false means no new data since the last call.
	Take(resource string) (*ClusterSummary, bool)
}

// TargetLister lists the endpoints to scrape
type TargetLister interface {
	// ScrapeTargets returns one target per reachable node
	ScrapeTargets(ctx context.Context) ([]ScrapeTarget, error)
}

// Fetcher defines operations for fetching metrics from exporters
type Fetcher interface {
	// Fetch retrieves the raw exposition text from a target
	Fetch(ctx context.Context, target ScrapeTarget) (string, error)
}

// Parser defines operations for parsing metrics data
type Parser interface {
	// Parse decodes raw exposition text into resource gauges for node
	Parse(data string, node NodeKey) (*NodeResourceMetrics, error)
}
