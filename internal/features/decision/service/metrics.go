package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Veto reasons reported on the vetoed counter
const (
	VetoCooldown            = "cooldown"
	VetoEmptyCluster        = "empty_cluster"
	VetoTopologyUnavailable = "topology_unavailable"
)

// MetricsCollector manages Prometheus metrics for decision policies
type MetricsCollector struct {
	invocations  *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	emitted      *prometheus.CounterVec
	vetoed       *prometheus.CounterVec
	unhealthyPct *prometheus.GaugeVec
	trackedNodes *prometheus.GaugeVec
}

// NewMetricsCollector creates the collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	m := &MetricsCollector{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rca_decider_policy_invocations_total",
				Help: "Count of policy evaluate calls",
			},
			[]string{"policy"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rca_decider_policy_evaluations_total",
				Help: "Count of cadence-gated cluster evaluations",
			},
			[]string{"policy"},
		),
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rca_decider_actions_emitted_total",
				Help: "Count of actions emitted by policies",
			},
			[]string{"policy"},
		),
		vetoed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rca_decider_actions_vetoed_total",
				Help: "Count of evaluations that crossed or could not check the threshold but emitted nothing",
			},
			[]string{"policy", "reason"},
		),
		unhealthyPct: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rca_decider_unhealthy_node_percentage",
				Help: "Floor percentage of undersized nodes at the last evaluation",
			},
			[]string{"policy"},
		),
		trackedNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rca_decider_tracked_nodes",
				Help: "Number of node windows held by the policy",
			},
			[]string{"policy"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.invocations,
			m.evaluations,
			m.emitted,
			m.vetoed,
			m.unhealthyPct,
			m.trackedNodes,
		)
	}
	return m
}

// RecordInvocation counts one evaluate call
func (m *MetricsCollector) RecordInvocation(policy string) {
	m.invocations.WithLabelValues(policy).Inc()
}

// RecordEvaluation counts one cluster-wide check and its outcome
func (m *MetricsCollector) RecordEvaluation(policy string, percentage, tracked int) {
	m.evaluations.WithLabelValues(policy).Inc()
	m.unhealthyPct.WithLabelValues(policy).Set(float64(percentage))
	m.trackedNodes.WithLabelValues(policy).Set(float64(tracked))
}

// RecordEmitted counts an emitted action
func (m *MetricsCollector) RecordEmitted(policy string) {
	m.emitted.WithLabelValues(policy).Inc()
}

// RecordVeto counts an evaluation that produced no action for reason
func (m *MetricsCollector) RecordVeto(policy, reason string) {
	m.vetoed.WithLabelValues(policy, reason).Inc()
}
