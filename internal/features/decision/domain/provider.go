package domain

import (
	"context"
)

// Action is a proposed remediation. Policies build actions; executing them is left to others.
type Action interface {
	// Name returns the action kind
	Name() string

	// Resource returns the resource the action targets
	Resource() string

	// IsActionable reports whether the action may be emitted now
	IsActionable() bool

	// Summary returns a serializable description of the action
	Summary() ActionSummary
}

// Policy turns accumulated evidence into actions on a fixed cadence
type Policy interface {
	// Name returns the policy name
	Name() string

	// Evaluate ingests the latest signals and, on cadence, returns the actions to emit
	Evaluate(ctx context.Context) []Action

	// SetThresholds atomically replaces the threshold configuration
	SetThresholds(unhealthyNodePercentage, minUnhealthyUnits int) error

	// Status returns a snapshot of the policy state
	Status() PolicyStatus
}

// ActionExecutor applies or announces an emitted action
type ActionExecutor interface {
	// Name identifies the executor in logs
	Name() string

	// Execute handles one emitted action
	Execute(ctx context.Context, summary ActionSummary) error
}
