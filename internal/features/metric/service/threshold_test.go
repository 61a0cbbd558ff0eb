package service

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca-decider/internal/common"
)

func TestSizeInKB(t *testing.T) {
	kb, err := SizeInKB(2048)
	require.NoError(t, err)
	assert.Equal(t, 2.0, kb)

	_, err = SizeInKB(math.NaN())
	require.Error(t, err, "NaN must be rejected")
	assert.True(t, common.IsInvalidMetricError(err))
}

func TestTotalSizeInKB(t *testing.T) {
	total, err := TotalSizeInKB([]float64{1024, 2048, 1024})
	require.NoError(t, err)
	assert.Equal(t, 4.0, total)

	total, err = TotalSizeInKB(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	_, err = TotalSizeInKB([]float64{1024, math.NaN()})
	assert.True(t, common.IsInvalidMetricError(err))
}

func TestIsExceeded(t *testing.T) {
	e := NewThresholdEvaluator(nil)

	testCases := []struct {
		name     string
		measured float64
		capacity float64
		ratio    float64
		expected bool
	}{
		{"zero measured", 0, 1000, 0.5, false},
		{"zero capacity", 600, 0, 0.5, false},
		{"above threshold", 600, 1000, 0.5, true},
		{"exactly at threshold", 500, 1000, 0.5, false},
		{"below threshold", 400, 1000, 0.5, false},
		{"zero ratio with data", 1, 1000, 0, true},
		{"NaN measured", math.NaN(), 1000, 0.5, false},
		{"NaN capacity", 600, math.NaN(), 0.5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.IsExceeded(tc.measured, tc.capacity, tc.ratio))
		})
	}
}

func TestIsSizeThresholdExceeded(t *testing.T) {
	e := NewThresholdEvaluator(nil)
	const mb = 1024 * 1024

	// three indices totalling 95MB against a 100MB cache at 90%
	assert.True(t, e.IsSizeThresholdExceeded([]float64{40 * mb, 30 * mb, 25 * mb}, 100*mb, 0.9))
	assert.False(t, e.IsSizeThresholdExceeded([]float64{40 * mb, 30 * mb}, 100*mb, 0.9))
	assert.False(t, e.IsSizeThresholdExceeded(nil, 100*mb, 0.9))
}

func TestNaNIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	e := NewThresholdEvaluator(logger)

	assert.NotPanics(t, func() {
		assert.False(t, e.IsSizeThresholdExceeded([]float64{math.NaN()}, 1000, 0.5))
	})
	assert.Contains(t, buf.String(), "error in calculating size threshold")
}
