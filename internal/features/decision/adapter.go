package decision

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"rca-decider/cmd/app"
	"rca-decider/internal/features/decision/domain"
	"rca-decider/internal/features/decision/service"
	metricDomain "rca-decider/internal/features/metric/domain"
	topologyDomain "rca-decider/internal/features/topology/domain"
)

// NewProvider builds one scale-up policy per summarized resource and registers them on a dispatcher
func NewProvider(
	config *app.Config,
	source metricDomain.SummarySource,
	topology topologyDomain.Provider,
	registerer prometheus.Registerer,
	logger *slog.Logger,
	executors ...domain.ActionExecutor,
) (*service.Dispatcher, error) {
	cooldown := service.NewCooldown(config.Decider.CooldownPeriod, nil)
	metrics := service.NewMetricsCollector(registerer)
	dispatcher := service.NewDispatcher(config.Decider.Interval, cooldown, logger, executors...)

	resources := map[string]string{
		app.PolicyJVMScaleUp: metricDomain.ResourceHeap,
	}
	for _, cacheType := range config.Analysis.CacheTypes {
		resources[app.CachePolicyName(cacheType)] = metricDomain.CacheResource(cacheType)
	}

	for _, name := range config.PolicyNames() {
		policy, err := service.NewScaleUpPolicy(
			service.PolicyConfig{
				Name:          name,
				Resource:      resources[name],
				EvalFrequency: config.Decider.EvalFrequency,
				WindowCount:   config.Decider.WindowCount,
				WindowUnit:    config.Decider.WindowUnit,
			},
			source,
			topology,
			cooldown,
			service.WithMetrics(metrics),
			service.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create policy %s: %w", name, err)
		}

		if err := dispatcher.Register(policy); err != nil {
			return nil, err
		}
	}

	if err := ApplyThresholds(config, dispatcher, logger); err != nil {
		return nil, err
	}
	return dispatcher, nil
}

// ApplyThresholds pushes configured thresholds into the registered policies.
// Policies without complete thresholds in config keep their current values.
func ApplyThresholds(config *app.Config, dispatcher *service.Dispatcher, logger *slog.Logger) error {
	var errs []error
	for _, policy := range dispatcher.Policies() {
		pct, minutes, ok := config.Decider.Thresholds(policy.Name())
		if !ok {
			logger.Debug("no thresholds configured", "policy", policy.Name())
			continue
		}
		if err := policy.SetThresholds(pct, minutes); err != nil {
			errs = append(errs, fmt.Errorf("policy %s: %w", policy.Name(), err))
		}
	}
	return errors.Join(errs...)
}
