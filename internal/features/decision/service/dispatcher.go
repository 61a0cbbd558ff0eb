package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"rca-decider/internal/common"
	"rca-decider/internal/features/decision/domain"
)

// DefaultQueueSize bounds the actions waiting for executors
const DefaultQueueSize = 64

type queuedAction struct {
	policy string
	action domain.Action
}

// Dispatcher drives registered policies on a fixed interval and hands emitted actions to executors.
// Executors run on a separate worker so a slow executor never delays policy evaluation.
type Dispatcher struct {
	interval  time.Duration
	policies  map[string]domain.Policy
	executors []domain.ActionExecutor
	cooldown  *Cooldown
	queue     chan queuedAction
	logger    *slog.Logger
	mu        sync.RWMutex
}

// NewDispatcher creates a dispatcher
func NewDispatcher(interval time.Duration, cooldown *Cooldown, logger *slog.Logger, executors ...domain.ActionExecutor) *Dispatcher {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Dispatcher{
		interval:  interval,
		policies:  make(map[string]domain.Policy),
		executors: executors,
		cooldown:  cooldown,
		queue:     make(chan queuedAction, DefaultQueueSize),
		logger:    logger.With("component", "dispatcher"),
	}
}

// Register adds a policy. Registering a name twice is an error.
func (d *Dispatcher) Register(policy domain.Policy) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.policies[policy.Name()]; exists {
		return common.InvalidInputError("policy %s already registered", policy.Name())
	}
	d.policies[policy.Name()] = policy
	return nil
}

// Policy returns a registered policy by name
func (d *Dispatcher) Policy(name string) (domain.Policy, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	policy, ok := d.policies[name]
	if !ok {
		return nil, common.NotFoundError("policy %s", name)
	}
	return policy, nil
}

// Policies returns all registered policies ordered by name
func (d *Dispatcher) Policies() []domain.Policy {
	d.mu.RLock()
	defer d.mu.RUnlock()

	policies := make([]domain.Policy, 0, len(d.policies))
	for _, policy := range d.policies {
		policies = append(policies, policy)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].Name() < policies[j].Name()
	})
	return policies
}

// Run ticks until ctx is canceled. It returns once the executor worker has stopped.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.work(ctx)
	}()

	d.logger.Info("dispatcher started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			d.logger.Info("dispatcher stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick evaluates every policy once and queues whatever they emit for the executors.
// It returns the number of actions emitted.
func (d *Dispatcher) Tick(ctx context.Context) int {
	emitted := 0
	for _, policy := range d.Policies() {
		if err := common.CheckContext(ctx, "dispatching policies"); err != nil {
			return emitted
		}

		for _, action := range policy.Evaluate(ctx) {
			emitted++
			d.enqueue(policy.Name(), action)
		}
	}
	return emitted
}

// enqueue starts the action's cooldown and queues it. A full queue drops the action
// without recording a cooldown, so the policy can propose it again.
func (d *Dispatcher) enqueue(policyName string, action domain.Action) {
	select {
	case d.queue <- queuedAction{policy: policyName, action: action}:
		if d.cooldown != nil {
			d.cooldown.Record(CooldownKey(action))
		}
	default:
		d.logger.Warn("action queue full, dropping action",
			"policy", policyName,
			"action", action.Name(),
			"capacity", cap(d.queue))
	}
}

// work runs queued actions through the executors until ctx is done
func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case queued := <-d.queue:
			d.execute(ctx, queued.policy, queued.action)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, policyName string, action domain.Action) {
	summary := action.Summary()
	for _, executor := range d.executors {
		if err := executor.Execute(ctx, summary); err != nil {
			d.logger.Error("action executor failed",
				"policy", policyName,
				"action", action.Name(),
				"executor", executor.Name(),
				"error", err)
			continue
		}
		d.logger.Debug("action executed",
			"policy", policyName,
			"action", action.Name(),
			"executor", executor.Name())
	}
}
