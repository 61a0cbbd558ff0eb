package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rca-decider/internal/common"
	"rca-decider/internal/features/metric/domain"
)

// AnalyzerConfig holds the thresholds that mark a node hot for a period
type AnalyzerConfig struct {
	// Interval is the period between collections
	Interval time.Duration
	// HeapRatio is the fraction of max heap above which a node is hot
	HeapRatio float64
	// CacheRatio is the fraction of a cache's max size above which a node is hot
	CacheRatio float64
	// CacheTypes lists the caches to summarize, e.g. fielddata, shard_request
	CacheTypes []string
}

// Analyzer scrapes every node once per period and publishes one ClusterSummary per resource
type Analyzer struct {
	lister    domain.TargetLister
	fetcher   domain.Fetcher
	parser    domain.Parser
	evaluator *ThresholdEvaluator
	store     *SummaryStore
	config    AnalyzerConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyzer creates an analyzer publishing into store
func NewAnalyzer(
	lister domain.TargetLister,
	fetcher domain.Fetcher,
	parser domain.Parser,
	store *SummaryStore,
	config AnalyzerConfig,
	logger *slog.Logger,
) *Analyzer {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Analyzer{
		lister:    lister,
		fetcher:   fetcher,
		parser:    parser,
		evaluator: NewThresholdEvaluator(logger),
		store:     store,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Resources returns the summary keys this analyzer publishes
func (a *Analyzer) Resources() []string {
	resources := []string{domain.ResourceHeap}
	for _, cacheType := range a.config.CacheTypes {
		resources = append(resources, domain.CacheResource(cacheType))
	}
	return resources
}

// Run collects on every interval tick until ctx is done
func (a *Analyzer) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()

	a.logger.Info("starting analyzer", "interval", a.config.Interval.String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.Collect(ctx); err != nil {
				a.logger.Error("collection failed", "error", err)
			}
		}
	}
}

// Collect scrapes all targets and publishes this period's summaries. A node that cannot be
// scraped is left out of every summary.
func (a *Analyzer) Collect(ctx context.Context) error {
	if err := common.CheckContext(ctx, "collecting node metrics"); err != nil {
		return err
	}

	targets, err := a.lister.ScrapeTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scrape targets: %w", err)
	}

	collected := make([]*domain.NodeResourceMetrics, 0, len(targets))
	for _, target := range targets {
		data, err := a.fetcher.Fetch(ctx, target)
		if err != nil {
			if common.IsContextCanceled(err) {
				return err
			}
			a.logger.Warn("failed to scrape node", "node", target.Node.String(), "error", err)
			continue
		}

		metrics, err := a.parser.Parse(data, target.Node)
		if err != nil {
			a.logger.Warn("failed to parse node metrics", "node", target.Node.String(), "error", err)
			continue
		}
		collected = append(collected, metrics)
	}

	now := a.now()
	heap := &domain.ClusterSummary{Resource: domain.ResourceHeap, Timestamp: now}
	for _, m := range collected {
		if a.evaluator.IsExceeded(m.HeapUsedBytes, m.HeapMaxBytes, a.config.HeapRatio) {
			heap.Nodes = append(heap.Nodes, hotNode(m.Node, m.HeapUsedBytes, m.HeapMaxBytes))
		}
	}
	a.store.Publish(heap)

	for _, cacheType := range a.config.CacheTypes {
		cache := &domain.ClusterSummary{Resource: domain.CacheResource(cacheType), Timestamp: now}
		for _, m := range collected {
			sizes := m.CacheSizes[cacheType]
			capacity := m.CacheMaxBytes[cacheType]
			if a.evaluator.IsSizeThresholdExceeded(sizes, capacity, a.config.CacheRatio) {
				var total float64
				for _, s := range sizes {
					total += s
				}
				cache.Nodes = append(cache.Nodes, hotNode(m.Node, total, capacity))
			}
		}
		a.store.Publish(cache)
	}

	a.logger.Debug("published summaries",
		"scraped", len(collected),
		"targets", len(targets),
		"hotHeapNodes", len(heap.Nodes))
	return nil
}

func hotNode(node domain.NodeKey, measuredBytes, capacityBytes float64) domain.HotNodeSummary {
	return domain.HotNodeSummary{
		NodeID:      node.NodeID,
		HostAddress: node.HostAddress,
		Measured:    measuredBytes / bytesPerKB,
		Capacity:    capacityBytes / bytesPerKB,
	}
}
