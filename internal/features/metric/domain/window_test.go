package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func point(ms int64, v float64) SignalPoint {
	return SignalPoint{Timestamp: ms, Value: v}
}

func TestSlidingWindowEmpty(t *testing.T) {
	w := NewSlidingWindow[SignalPoint](4, 24*time.Hour)

	assert.Equal(t, 0.0, w.Sum(), "empty window should sum to 0")
	assert.Equal(t, 0.0, w.SumAt(time.Now().UnixMilli()), "querying an empty window should not fail")
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 96*time.Hour, w.Size())
}

func TestSlidingWindowRunningSum(t *testing.T) {
	w := NewSlidingWindow[SignalPoint](10, time.Second)

	w.Insert(point(1000, 1))
	w.Insert(point(2000, 2.5))
	w.Insert(point(3000, 0.5))

	assert.Equal(t, 4.0, w.Sum())
	assert.Equal(t, 3, w.Len())
}

func TestSlidingWindowEvictsOnInsert(t *testing.T) {
	w := NewSlidingWindow[SignalPoint](5, time.Second)

	w.Insert(point(0, 1))
	w.Insert(point(1000, 1))
	w.Insert(point(2000, 1))
	assert.Equal(t, 3.0, w.Sum())

	// cutoff is 6500-5000 = 1500: points at 0 and 1000 leave, 2000 stays
	w.Insert(point(6500, 1))
	assert.Equal(t, 2.0, w.Sum())
	assert.Equal(t, 2, w.Len())
}

func TestSlidingWindowEvictionAtQueryTime(t *testing.T) {
	const d = int64(4 * 24 * time.Hour / time.Millisecond)
	w := NewSlidingWindow[SignalPoint](4, 24*time.Hour)

	times := []int64{0, 1000, d / 2, d, d + 5000}
	for _, ts := range times {
		w.Insert(point(ts, 1))
	}
	// inserting at d+5000 evicted 0 and 1000 already
	assert.Equal(t, 3.0, w.Sum())

	now := d + d/2
	// retained iff ts >= now-d = d/2
	assert.Equal(t, 3.0, w.SumAt(now), "point exactly on the boundary is kept")

	now = d + d/2 + 1
	assert.Equal(t, 2.0, w.SumAt(now), "boundary point is dropped once it ages past the window")

	assert.Equal(t, 0.0, w.SumAt(10*d))
	assert.Equal(t, 0, w.Len())
}

func TestSlidingWindowSumStaleUntilQueried(t *testing.T) {
	w := NewSlidingWindow[SignalPoint](1, time.Minute)
	w.Insert(point(0, 1))

	// Sum does not evict; SumAt does
	assert.Equal(t, 1.0, w.Sum())
	assert.Equal(t, 0.0, w.SumAt(int64(2*time.Minute/time.Millisecond)))
	assert.Equal(t, 0.0, w.Sum())
}
