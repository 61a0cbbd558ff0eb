package service

import (
	"context"
	"strings"

	"rca-decider/internal/features/decision/domain"
	"rca-decider/pkg/event"
)

// Event reasons recorded for emitted actions
const (
	ReasonScaleUpProposed = "ScaleUpProposed"
)

// EventExecutor records each emitted action as a Kubernetes event
type EventExecutor struct {
	recorder event.Recorder
}

// NewEventExecutor creates an executor backed by recorder
func NewEventExecutor(recorder event.Recorder) *EventExecutor {
	return &EventExecutor{recorder: recorder}
}

// Name identifies the executor in logs
func (e *EventExecutor) Name() string {
	return "event"
}

// Execute records a normal event describing the action
func (e *EventExecutor) Execute(ctx context.Context, summary domain.ActionSummary) error {
	return e.recorder.Normal(ctx, ReasonScaleUpProposed,
		"%s proposed by %s: %d%% of %d nodes undersized for %s (%s)",
		summary.Name,
		summary.Policy,
		summary.UnhealthyPercentage,
		summary.ClusterSize,
		summary.Resource,
		strings.Join(summary.UndersizedNodes, ", "))
}
