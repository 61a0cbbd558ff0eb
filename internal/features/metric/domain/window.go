package domain

import (
	"container/list"
	"time"
)

// SlidingWindow accumulates observations over a bounded duration and keeps a running sum.
// Observations are expected in non-decreasing timestamp order; stale entries are dropped
// lazily from the front when a new point is inserted or when SumAt is queried.
type SlidingWindow[T Observation] struct {
	size   time.Duration
	points *list.List
	sum    float64
}

// NewSlidingWindow creates a window spanning count units, e.g. NewSlidingWindow(4, 24*time.Hour)
func NewSlidingWindow[T Observation](count int, unit time.Duration) *SlidingWindow[T] {
	return &SlidingWindow[T]{
		size:   time.Duration(count) * unit,
		points: list.New(),
	}
}

// Insert appends point and evicts everything older than the window relative to it.
// Callers must not insert a point older than Last; eviction only inspects the front.
func (w *SlidingWindow[T]) Insert(point T) {
	w.points.PushBack(point)
	w.sum += point.Amount()
	w.evict(point.Millis())
}

// Sum returns the running sum without evicting. It may include points that have aged out
// since the last insert.
func (w *SlidingWindow[T]) Sum() float64 {
	return w.sum
}

// SumAt evicts points outside [nowMillis-size, nowMillis] and returns the running sum
func (w *SlidingWindow[T]) SumAt(nowMillis int64) float64 {
	w.evict(nowMillis)
	return w.sum
}

// Last returns the timestamp of the newest retained point
func (w *SlidingWindow[T]) Last() (int64, bool) {
	back := w.points.Back()
	if back == nil {
		return 0, false
	}
	return back.Value.(T).Millis(), true
}

// Len returns the number of retained points
func (w *SlidingWindow[T]) Len() int {
	return w.points.Len()
}

// Size returns the window duration
func (w *SlidingWindow[T]) Size() time.Duration {
	return w.size
}

func (w *SlidingWindow[T]) evict(nowMillis int64) {
	cutoff := nowMillis - w.size.Milliseconds()
	for e := w.points.Front(); e != nil; e = w.points.Front() {
		point := e.Value.(T)
		if point.Millis() >= cutoff {
			break
		}
		w.sum -= point.Amount()
		w.points.Remove(e)
	}
	if w.points.Len() == 0 {
		// avoid carrying float residue once the window drains
		w.sum = 0
	}
}
