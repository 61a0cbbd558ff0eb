package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestWindowTrackerUnseenKey(t *testing.T) {
	tracker := NewWindowTracker(4, 24*time.Hour, nil)
	key := NodeKey{NodeID: "n1", HostAddress: "10.0.0.1"}

	assert.Equal(t, 0.0, tracker.Sum(key))
	assert.Equal(t, 0.0, tracker.Sum(key))
	assert.Equal(t, 0, tracker.Len(), "reading an unseen key must not create a window")
}

func TestWindowTrackerObserve(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	tracker := NewWindowTracker(1, time.Hour, clock.Now)

	a := NodeKey{NodeID: "a", HostAddress: "10.0.0.1"}
	b := NodeKey{NodeID: "b", HostAddress: "10.0.0.2"}

	tracker.Observe(a, NewSignalPoint(clock.now, 1))
	tracker.Observe(a, NewSignalPoint(clock.now, 1))
	tracker.Observe(b, NewSignalPoint(clock.now, 1))

	assert.Equal(t, 2.0, tracker.Sum(a))
	assert.Equal(t, 1.0, tracker.Sum(b))
	require.Equal(t, 2, tracker.Len())
	assert.Equal(t, []NodeKey{a, b}, tracker.Keys())
	assert.Equal(t, time.Hour, tracker.WindowSize())
}

func TestWindowTrackerAgesOutOnRead(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(0)}
	tracker := NewWindowTracker(1, time.Hour, clock.Now)
	key := NodeKey{NodeID: "a", HostAddress: "10.0.0.1"}

	tracker.Observe(key, NewSignalPoint(clock.now, 1))
	clock.now = clock.now.Add(30 * time.Minute)
	tracker.Observe(key, NewSignalPoint(clock.now, 1))
	assert.Equal(t, 2.0, tracker.Sum(key))

	clock.now = clock.now.Add(45 * time.Minute)
	assert.Equal(t, 1.0, tracker.Sum(key), "first point is older than an hour")

	clock.now = clock.now.Add(time.Hour)
	assert.Equal(t, 0.0, tracker.Sum(key))
	assert.Equal(t, 1, tracker.Len(), "windows are never removed")
}

func TestWindowTrackerClampsBackwardClock(t *testing.T) {
	start := time.UnixMilli(0)
	clock := &fakeClock{now: start.Add(50 * time.Minute)}
	tracker := NewWindowTracker(1, time.Hour, clock.Now)
	key := NodeKey{NodeID: "a", HostAddress: "10.0.0.1"}

	tracker.Observe(key, NewSignalPoint(clock.now, 1))

	clock.now = start.Add(5 * time.Minute)
	tracker.Observe(key, NewSignalPoint(clock.now, 1))

	last, ok := tracker.windows[key].Last()
	require.True(t, ok)
	assert.Equal(t, (50 * time.Minute).Milliseconds(), last, "a point from the past takes the newest timestamp")

	clock.now = start.Add(110 * time.Minute)
	assert.Equal(t, 2.0, tracker.Sum(key))

	clock.now = start.Add(111 * time.Minute)
	assert.Equal(t, 0.0, tracker.Sum(key), "both points age out together")
}

func TestNodeKeyIsComparable(t *testing.T) {
	m := map[NodeKey]int{}
	m[NodeKey{NodeID: "a", HostAddress: "h"}]++
	m[NodeKey{NodeID: "a", HostAddress: "h"}]++

	assert.Equal(t, 2, m[NodeKey{NodeID: "a", HostAddress: "h"}])
	assert.Equal(t, "a@h", NodeKey{NodeID: "a", HostAddress: "h"}.String())
}
