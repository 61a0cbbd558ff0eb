package service

import (
	"strings"

	"rca-decider/internal/features/decision/domain"
	metricDomain "rca-decider/internal/features/metric/domain"
)

// ScaleUpAction proposes growing a resource across the cluster
type ScaleUpAction struct {
	summary  domain.ActionSummary
	cooldown *Cooldown
}

// NewScaleUpAction creates an action gated by cooldown. A nil cooldown never vetoes.
func NewScaleUpAction(summary domain.ActionSummary, cooldown *Cooldown) *ScaleUpAction {
	return &ScaleUpAction{
		summary:  summary,
		cooldown: cooldown,
	}
}

// Name returns the action kind
func (a *ScaleUpAction) Name() string {
	return a.summary.Name
}

// Resource returns the targeted resource
func (a *ScaleUpAction) Resource() string {
	return a.summary.Resource
}

// IsActionable is false while the same action is cooling down
func (a *ScaleUpAction) IsActionable() bool {
	if a.cooldown == nil {
		return true
	}
	active, _ := a.cooldown.Active(CooldownKey(a))
	return !active
}

// Summary returns a copy of the action description
func (a *ScaleUpAction) Summary() domain.ActionSummary {
	s := a.summary
	s.UndersizedNodes = append([]string(nil), a.summary.UndersizedNodes...)
	return s
}

// CooldownKey identifies an action for cooldown bookkeeping
func CooldownKey(action domain.Action) string {
	return action.Name() + "/" + action.Resource()
}

// ActionKindFor maps a summary resource to the action kind that remediates it
func ActionKindFor(resource string) string {
	if strings.HasPrefix(resource, metricDomain.CacheResource("")) {
		return domain.ActionCacheSizeIncrease
	}
	return domain.ActionHeapSizeIncrease
}
