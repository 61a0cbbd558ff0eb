package domain

import (
	"sort"
	"time"
)

// WindowTracker keeps one SlidingWindow per node. Windows are created on first observation
// and are never removed; a node that leaves the cluster keeps its (eventually empty) window.
// WindowTracker is not safe for concurrent use; its owner serializes access.
type WindowTracker struct {
	count   int
	unit    time.Duration
	now     func() time.Time
	windows map[NodeKey]*SlidingWindow[SignalPoint]
}

// NewWindowTracker creates a tracker whose windows span count units. now is the clock used to
// age out points on read; nil means time.Now.
func NewWindowTracker(count int, unit time.Duration, now func() time.Time) *WindowTracker {
	if now == nil {
		now = time.Now
	}
	return &WindowTracker{
		count:   count,
		unit:    unit,
		now:     now,
		windows: make(map[NodeKey]*SlidingWindow[SignalPoint]),
	}
}

// Observe inserts point into key's window, creating the window if needed.
// A point older than the window's newest one, e.g. after the wall clock stepped back,
// is clamped to that newest timestamp.
func (t *WindowTracker) Observe(key NodeKey, point SignalPoint) {
	window, exists := t.windows[key]
	if !exists {
		window = NewSlidingWindow[SignalPoint](t.count, t.unit)
		t.windows[key] = window
	}
	if last, ok := window.Last(); ok && point.Timestamp < last {
		point.Timestamp = last
	}
	window.Insert(point)
}

// Sum returns key's window sum at the current time, or 0 for a key never observed.
// Reading never creates a window.
func (t *WindowTracker) Sum(key NodeKey) float64 {
	window, exists := t.windows[key]
	if !exists {
		return 0
	}
	return window.SumAt(t.now().UnixMilli())
}

// Len returns the number of tracked keys
func (t *WindowTracker) Len() int {
	return len(t.windows)
}

// Keys returns every tracked key in a stable order
func (t *WindowTracker) Keys() []NodeKey {
	keys := make([]NodeKey, 0, len(t.windows))
	for key := range t.windows {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].NodeID != keys[j].NodeID {
			return keys[i].NodeID < keys[j].NodeID
		}
		return keys[i].HostAddress < keys[j].HostAddress
	})
	return keys
}

// WindowSize returns the duration each window spans
func (t *WindowTracker) WindowSize() time.Duration {
	return time.Duration(t.count) * t.unit
}
