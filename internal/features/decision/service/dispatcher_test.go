package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rca-decider/internal/common"
	"rca-decider/internal/features/decision/domain"
	"rca-decider/internal/features/decision/domain/mocks"
)

func TestDispatcherTickExecutesActions(t *testing.T) {
	clock := newTestClock()
	cooldown := NewCooldown(time.Hour, clock.Now)

	summary := domain.ActionSummary{Name: domain.ActionHeapSizeIncrease, Resource: "heap", Policy: "jvm_scale_up"}
	action := NewScaleUpAction(summary, cooldown)

	policy := new(mocks.MockPolicy)
	policy.On("Name").Return("jvm_scale_up")
	policy.On("Evaluate", mock.Anything).Return([]domain.Action{action}).Once()

	failing := new(mocks.MockActionExecutor)
	failing.On("Name").Return("webhook")
	failing.On("Execute", mock.Anything, summary).Return(assert.AnError).Once()

	working := new(mocks.MockActionExecutor)
	working.On("Name").Return("event")
	working.On("Execute", mock.Anything, summary).Return(nil).Once()

	dispatcher := NewDispatcher(time.Minute, cooldown, nil, failing, working)
	require.NoError(t, dispatcher.Register(policy))

	assert.Equal(t, 1, dispatcher.Tick(context.Background()))
	assert.False(t, action.IsActionable(), "queued actions start cooling down")
	assert.Equal(t, 1, drainQueue(dispatcher))

	active, remaining := cooldown.Active(CooldownKey(action))
	assert.True(t, active)
	assert.Equal(t, time.Hour, remaining)

	policy.AssertExpectations(t)
	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

// drainQueue runs every queued action through the executors
func drainQueue(d *Dispatcher) int {
	executed := 0
	for {
		select {
		case queued := <-d.queue:
			d.execute(context.Background(), queued.policy, queued.action)
			executed++
		default:
			return executed
		}
	}
}

type countingPolicy struct {
	name    string
	emit    bool
	calls   atomic.Int64
	summary domain.ActionSummary
}

func (p *countingPolicy) Name() string { return p.name }

func (p *countingPolicy) Evaluate(context.Context) []domain.Action {
	p.calls.Add(1)
	if !p.emit {
		return nil
	}
	return []domain.Action{NewScaleUpAction(p.summary, nil)}
}

func (p *countingPolicy) SetThresholds(int, int) error { return nil }

func (p *countingPolicy) Status() domain.PolicyStatus {
	return domain.PolicyStatus{Name: p.name}
}

type slowExecutor struct {
	delay    time.Duration
	executed atomic.Int64
}

func (e *slowExecutor) Name() string { return "slow" }

func (e *slowExecutor) Execute(ctx context.Context, _ domain.ActionSummary) error {
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	e.executed.Add(1)
	return nil
}

func TestDispatcherSlowExecutorDoesNotDelayEvaluation(t *testing.T) {
	emitting := &countingPolicy{
		name:    "a_jvm",
		emit:    true,
		summary: domain.ActionSummary{Name: domain.ActionHeapSizeIncrease, Resource: "heap"},
	}
	quiet := &countingPolicy{name: "b_cache"}
	executor := &slowExecutor{delay: 100 * time.Millisecond}

	dispatcher := NewDispatcher(10*time.Millisecond, nil, nil, executor)
	require.NoError(t, dispatcher.Register(emitting))
	require.NoError(t, dispatcher.Register(quiet))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	dispatcher.Run(ctx)

	assert.GreaterOrEqual(t, quiet.calls.Load(), int64(20), "evaluation kept its cadence")
	assert.GreaterOrEqual(t, emitting.calls.Load(), int64(20))
	assert.GreaterOrEqual(t, executor.executed.Load(), int64(2))
}

func TestDispatcherQueueFullSkipsCooldown(t *testing.T) {
	cooldown := NewCooldown(time.Hour, newTestClock().Now)
	dispatcher := NewDispatcher(time.Minute, cooldown, nil)

	summary := domain.ActionSummary{Name: domain.ActionHeapSizeIncrease, Resource: "heap"}
	for i := 0; i < DefaultQueueSize; i++ {
		dispatcher.enqueue("jvm_scale_up", NewScaleUpAction(summary, nil))
	}

	dropped := NewScaleUpAction(domain.ActionSummary{Name: domain.ActionCacheSizeIncrease, Resource: "cache:fielddata"}, cooldown)
	dispatcher.enqueue("cache_scale_up_fielddata", dropped)
	assert.True(t, dropped.IsActionable(), "a dropped action does not cool down")
	assert.Equal(t, DefaultQueueSize, drainQueue(dispatcher))
}

func TestDispatcherRegisterAndLookup(t *testing.T) {
	dispatcher := NewDispatcher(time.Minute, nil, nil)

	b := new(mocks.MockPolicy)
	b.On("Name").Return("b")
	a := new(mocks.MockPolicy)
	a.On("Name").Return("a")

	require.NoError(t, dispatcher.Register(b))
	require.NoError(t, dispatcher.Register(a))

	err := dispatcher.Register(a)
	assert.True(t, common.IsInvalidInput(err))

	policies := dispatcher.Policies()
	require.Len(t, policies, 2)
	assert.Equal(t, "a", policies[0].Name())

	_, err = dispatcher.Policy("missing")
	assert.True(t, common.IsNotFound(err))

	got, err := dispatcher.Policy("b")
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestDispatcherTickCanceled(t *testing.T) {
	policy := new(mocks.MockPolicy)
	policy.On("Name").Return("jvm_scale_up")

	dispatcher := NewDispatcher(time.Minute, nil, nil)
	require.NoError(t, dispatcher.Register(policy))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, dispatcher.Tick(ctx))
	policy.AssertNotCalled(t, "Evaluate", mock.Anything)
}

func TestDispatcherRunStops(t *testing.T) {
	policy := new(mocks.MockPolicy)
	policy.On("Name").Return("jvm_scale_up")
	policy.On("Evaluate", mock.Anything).Return(nil)

	dispatcher := NewDispatcher(5*time.Millisecond, nil, nil)
	require.NoError(t, dispatcher.Register(policy))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after context cancellation")
	}
	policy.AssertCalled(t, "Evaluate", mock.Anything)
}

func TestCooldown(t *testing.T) {
	clock := newTestClock()
	cooldown := NewCooldown(10*time.Minute, clock.Now)

	active, _ := cooldown.Active("heap")
	assert.False(t, active)

	cooldown.Record("heap")
	clock.Advance(4 * time.Minute)
	active, remaining := cooldown.Active("heap")
	assert.True(t, active)
	assert.Equal(t, 6*time.Minute, remaining)

	clock.Advance(6 * time.Minute)
	active, _ = cooldown.Active("heap")
	assert.False(t, active)

	disabled := NewCooldown(0, clock.Now)
	disabled.Record("heap")
	active, _ = disabled.Active("heap")
	assert.False(t, active)
}

func TestActionKindFor(t *testing.T) {
	assert.Equal(t, domain.ActionHeapSizeIncrease, ActionKindFor("heap"))
	assert.Equal(t, domain.ActionCacheSizeIncrease, ActionKindFor("cache:fielddata"))
}
