package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rca-decider/internal/common"
	"rca-decider/internal/features/decision/domain"
	metricDomain "rca-decider/internal/features/metric/domain"
	topologyDomain "rca-decider/internal/features/topology/domain"
)

// ActionFactory builds the action a policy proposes once its threshold is crossed
type ActionFactory func(summary domain.ActionSummary) domain.Action

// PolicyConfig holds the fixed parameters of a scale-up policy
type PolicyConfig struct {
	Name     string
	Resource string
	// EvalFrequency is the number of Evaluate calls between cluster-wide checks
	EvalFrequency int
	// WindowCount and WindowUnit bound each node's window, e.g. 4 x 24h
	WindowCount int
	WindowUnit  time.Duration
	// Thresholds may be nil until configuration arrives
	Thresholds *domain.Thresholds
}

// ScaleUpPolicy counts how long each node has been reported unhealthy for a resource
// and proposes a scale-up when enough of the cluster is undersized.
type ScaleUpPolicy struct {
	config     PolicyConfig
	thresholds *domain.Thresholds
	counter    int
	tracker    *metricDomain.WindowTracker

	source    metricDomain.SummarySource
	topology  topologyDomain.Provider
	newAction ActionFactory
	metrics   *MetricsCollector
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
}

// PolicyOption customizes a ScaleUpPolicy
type PolicyOption func(*ScaleUpPolicy)

// WithClock overrides the policy clock
func WithClock(now func() time.Time) PolicyOption {
	return func(p *ScaleUpPolicy) {
		if now != nil {
			p.now = now
		}
	}
}

// WithActionFactory overrides how actions are built
func WithActionFactory(factory ActionFactory) PolicyOption {
	return func(p *ScaleUpPolicy) {
		if factory != nil {
			p.newAction = factory
		}
	}
}

// WithMetrics attaches a metrics collector
func WithMetrics(metrics *MetricsCollector) PolicyOption {
	return func(p *ScaleUpPolicy) {
		p.metrics = metrics
	}
}

// WithLogger sets the policy logger
func WithLogger(logger *slog.Logger) PolicyOption {
	return func(p *ScaleUpPolicy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewScaleUpPolicy creates a policy. The default action is a ScaleUpAction gated by cooldown.
func NewScaleUpPolicy(
	config PolicyConfig,
	source metricDomain.SummarySource,
	topology topologyDomain.Provider,
	cooldown *Cooldown,
	opts ...PolicyOption,
) (*ScaleUpPolicy, error) {
	if config.Name == "" {
		return nil, common.InvalidInputError("policy name is required")
	}
	if config.EvalFrequency < 1 {
		return nil, common.InvalidInputError("policy %s: eval frequency must be at least 1, got %d",
			config.Name, config.EvalFrequency)
	}
	if config.WindowCount < 1 || config.WindowUnit <= 0 {
		return nil, common.InvalidInputError("policy %s: window must be positive, got %d x %s",
			config.Name, config.WindowCount, config.WindowUnit)
	}
	if config.Thresholds != nil {
		if err := validateThresholds(config.Thresholds.UnhealthyNodePercentage, config.Thresholds.MinUnhealthyUnits); err != nil {
			return nil, err
		}
	}

	p := &ScaleUpPolicy{
		config:   config,
		source:   source,
		topology: topology,
		logger:   common.NopLogger(),
		now:      time.Now,
		newAction: func(summary domain.ActionSummary) domain.Action {
			return NewScaleUpAction(summary, cooldown)
		},
	}
	if config.Thresholds != nil {
		t := *config.Thresholds
		p.thresholds = &t
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("policy", config.Name, "resource", config.Resource)
	p.tracker = metricDomain.NewWindowTracker(config.WindowCount, config.WindowUnit, p.now)
	return p, nil
}

// Name returns the policy name
func (p *ScaleUpPolicy) Name() string {
	return p.config.Name
}

// Resource returns the summary resource the policy consumes
func (p *ScaleUpPolicy) Resource() string {
	return p.config.Resource
}

// Evaluate ingests the latest summary, then on every EvalFrequency-th call checks
// whether the undersized share of the cluster crosses the configured percentage.
func (p *ScaleUpPolicy) Evaluate(ctx context.Context) []domain.Action {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordInvocation(p.config.Name)
	}

	p.ingest()

	p.counter++
	if p.counter < p.config.EvalFrequency {
		return nil
	}
	p.counter = 0

	return p.evaluateCluster(ctx)
}

// ingest records one unit for every node reported hot in the latest summary
func (p *ScaleUpPolicy) ingest() {
	summary, ok := p.source.Take(p.config.Resource)
	if !ok || summary.IsEmpty() {
		return
	}

	point := metricDomain.NewSignalPoint(p.now(), 1.0)
	for _, node := range summary.Nodes {
		p.tracker.Observe(node.Key(), point)
	}
	p.logger.Debug("ingested summary", "hotNodes", len(summary.Nodes))
}

func (p *ScaleUpPolicy) evaluateCluster(ctx context.Context) []domain.Action {
	if p.thresholds == nil {
		p.logger.Debug("thresholds not configured, skipping evaluation")
		return nil
	}
	thresholds := *p.thresholds

	instances, err := p.topology.AllClusterInstances(ctx)
	if err != nil {
		p.logger.Warn("failed to query cluster topology", "error", err)
		p.recordVeto(VetoTopologyUnavailable)
		return nil
	}

	clusterSize := len(instances)
	if clusterSize == 0 {
		p.logger.Warn("cluster topology is empty, skipping evaluation")
		p.recordVeto(VetoEmptyCluster)
		return nil
	}

	undersized := p.undersizedNodes(thresholds.MinUnhealthyUnits)
	percentage := len(undersized) * 100 / clusterSize

	if p.metrics != nil {
		p.metrics.RecordEvaluation(p.config.Name, percentage, p.tracker.Len())
	}

	p.logger.Debug("evaluated cluster",
		"undersized", len(undersized),
		"clusterSize", clusterSize,
		"percentage", percentage,
		"threshold", thresholds.UnhealthyNodePercentage)

	if percentage < thresholds.UnhealthyNodePercentage {
		return nil
	}

	action := p.newAction(domain.ActionSummary{
		Name:                ActionKindFor(p.config.Resource),
		Resource:            p.config.Resource,
		Policy:              p.config.Name,
		Reason:              "unhealthy node percentage crossed threshold",
		UndersizedNodes:     undersized,
		ClusterSize:         clusterSize,
		UnhealthyPercentage: percentage,
		Timestamp:           p.now(),
	})
	if !action.IsActionable() {
		p.logger.Info("threshold crossed but action is not actionable", "action", action.Name())
		p.recordVeto(VetoCooldown)
		return nil
	}

	if p.metrics != nil {
		p.metrics.RecordEmitted(p.config.Name)
	}
	p.logger.Info("emitting action",
		"action", action.Name(),
		"percentage", percentage,
		"undersized", len(undersized))
	return []domain.Action{action}
}

// undersizedNodes lists tracked nodes whose window sum reaches minUnits.
// Nodes that left the topology keep their windows and still count until they age out.
func (p *ScaleUpPolicy) undersizedNodes(minUnits int) []string {
	var nodes []string
	for _, key := range p.tracker.Keys() {
		if p.tracker.Sum(key) >= float64(minUnits) {
			nodes = append(nodes, key.NodeID)
		}
	}
	return nodes
}

func (p *ScaleUpPolicy) recordVeto(reason string) {
	if p.metrics != nil {
		p.metrics.RecordVeto(p.config.Name, reason)
	}
}

// SetThresholds replaces both thresholds at once. It takes effect on the next evaluation.
func (p *ScaleUpPolicy) SetThresholds(unhealthyNodePercentage, minUnhealthyUnits int) error {
	if err := validateThresholds(unhealthyNodePercentage, minUnhealthyUnits); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.thresholds = &domain.Thresholds{
		UnhealthyNodePercentage: unhealthyNodePercentage,
		MinUnhealthyUnits:       minUnhealthyUnits,
	}
	p.logger.Info("thresholds updated",
		"unhealthyNodePercentage", unhealthyNodePercentage,
		"minUnhealthyUnits", minUnhealthyUnits)
	return nil
}

// Status returns a snapshot of the policy state
func (p *ScaleUpPolicy) Status() domain.PolicyStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := domain.PolicyStatus{
		Name:          p.config.Name,
		Resource:      p.config.Resource,
		Counter:       p.counter,
		EvalFrequency: p.config.EvalFrequency,
		Window:        p.tracker.WindowSize().String(),
		TrackedNodes:  make([]domain.NodeWindow, 0, p.tracker.Len()),
	}
	if p.thresholds != nil {
		t := *p.thresholds
		status.Thresholds = &t
	}
	for _, key := range p.tracker.Keys() {
		status.TrackedNodes = append(status.TrackedNodes, domain.NodeWindow{
			NodeID:      key.NodeID,
			HostAddress: key.HostAddress,
			Sum:         p.tracker.Sum(key),
		})
	}
	return status
}

func validateThresholds(unhealthyNodePercentage, minUnhealthyUnits int) error {
	if unhealthyNodePercentage < 0 || unhealthyNodePercentage > 100 {
		return common.InvalidInputError("unhealthy node percentage must be within 0-100, got %d", unhealthyNodePercentage)
	}
	if minUnhealthyUnits < 0 {
		return common.InvalidInputError("min unhealthy units must not be negative, got %d", minUnhealthyUnits)
	}
	return nil
}
