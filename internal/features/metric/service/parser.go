package service

import (
	"fmt"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"rca-decider/internal/features/metric/domain"
)

// ParserConfig names the series the parser reads
type ParserConfig struct {
	HeapUsedMetric  string
	HeapMaxMetric   string
	HeapAreaLabel   string
	HeapAreaValue   string
	CacheSizeMetric string
	CacheMaxMetric  string
	CacheTypeLabel  string
}

// DefaultParserConfig returns series names used by the JVM and search-engine exporters
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		HeapUsedMetric:  "jvm_memory_bytes_used",
		HeapMaxMetric:   "jvm_memory_bytes_max",
		HeapAreaLabel:   "area",
		HeapAreaValue:   "heap",
		CacheSizeMetric: "opensearch_cache_size_bytes",
		CacheMaxMetric:  "opensearch_cache_max_size_bytes",
		CacheTypeLabel:  "cache",
	}
}

// ResourceParser implements domain.Parser for the Prometheus text format
type ResourceParser struct {
	config ParserConfig
	now    func() time.Time
}

// NewResourceParser creates a parser for the configured series
func NewResourceParser(config ParserConfig) *ResourceParser {
	return &ResourceParser{config: config, now: time.Now}
}

// Parse decodes data and extracts heap and cache gauges for node
func (p *ResourceParser) Parse(data string, node domain.NodeKey) (*domain.NodeResourceMetrics, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse metrics for node %s: %w", node.NodeID, err)
	}

	result := &domain.NodeResourceMetrics{
		Node:          node,
		CacheSizes:    make(map[string][]float64),
		CacheMaxBytes: make(map[string]float64),
		ScrapedAt:     p.now(),
	}

	if mf, ok := families[p.config.HeapUsedMetric]; ok {
		result.HeapUsedBytes = p.sumWhere(mf, p.config.HeapAreaLabel, p.config.HeapAreaValue)
	}
	if mf, ok := families[p.config.HeapMaxMetric]; ok {
		result.HeapMaxBytes = p.sumWhere(mf, p.config.HeapAreaLabel, p.config.HeapAreaValue)
	}

	if mf, ok := families[p.config.CacheSizeMetric]; ok {
		for _, m := range mf.GetMetric() {
			cacheType := labelValue(m, p.config.CacheTypeLabel)
			if cacheType == "" {
				continue
			}
			result.CacheSizes[cacheType] = append(result.CacheSizes[cacheType], metricValue(mf, m))
		}
	}
	if mf, ok := families[p.config.CacheMaxMetric]; ok {
		for _, m := range mf.GetMetric() {
			cacheType := labelValue(m, p.config.CacheTypeLabel)
			if cacheType == "" {
				continue
			}
			result.CacheMaxBytes[cacheType] += metricValue(mf, m)
		}
	}

	return result, nil
}

// sumWhere sums the samples of mf whose label matches value; an empty label matches all
func (p *ResourceParser) sumWhere(mf *dto.MetricFamily, label, value string) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		if label != "" && labelValue(m, label) != value {
			continue
		}
		total += metricValue(mf, m)
	}
	return total
}

func labelValue(m *dto.Metric, name string) string {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

func metricValue(mf *dto.MetricFamily, m *dto.Metric) float64 {
	switch mf.GetType() {
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
