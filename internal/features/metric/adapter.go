package metric

import (
	"context"
	"log/slog"

	"rca-decider/cmd/app"
	"rca-decider/internal/features/metric/domain"
	"rca-decider/internal/features/metric/service"
)

// Provider bundles the analyzer and the store it publishes summaries into
type Provider struct {
	Analyzer *service.Analyzer
	Store    *service.SummaryStore
}

// NewProvider creates the summary pipeline and starts collecting in the background
func NewProvider(
	ctx context.Context,
	config *app.Config,
	lister domain.TargetLister,
	logger *slog.Logger,
) *Provider {
	logger = logger.With("component", "analyzer")
	logger.Info("initializing metrics analyzer")

	fetcher := service.NewNodeMetricsFetcher(
		config.Scrape.Timeout,
		config.Scrape.Port,
		config.Scrape.Path,
		logger,
	)

	parserConfig := service.DefaultParserConfig()
	parserConfig.HeapUsedMetric = config.Scrape.HeapUsedMetric
	parserConfig.HeapMaxMetric = config.Scrape.HeapMaxMetric
	parserConfig.CacheSizeMetric = config.Scrape.CacheSizeMetric
	parserConfig.CacheMaxMetric = config.Scrape.CacheMaxMetric
	parserConfig.CacheTypeLabel = config.Scrape.CacheTypeLabel

	store := service.NewSummaryStore()
	analyzer := service.NewAnalyzer(
		lister,
		fetcher,
		service.NewResourceParser(parserConfig),
		store,
		service.AnalyzerConfig{
			Interval:   config.Analysis.Interval,
			HeapRatio:  config.Analysis.HeapRatio,
			CacheRatio: config.Analysis.CacheRatio,
			CacheTypes: config.Analysis.CacheTypes,
		},
		logger,
	)

	go func() {
		if err := analyzer.Run(ctx); err != nil {
			logger.Error("analyzer stopped", "error", err)
		}
	}()

	logger.Info("metrics analyzer initialized", "resources", analyzer.Resources())
	return &Provider{
		Analyzer: analyzer,
		Store:    store,
	}
}
