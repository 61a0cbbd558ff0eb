package service

import (
	"log/slog"
	"math"

	"rca-decider/internal/common"
)

const bytesPerKB = 1024.0

// SizeInKB converts a byte count to kilobytes. NaN is rejected with an InvalidMetricError.
func SizeInKB(sizeInBytes float64) (float64, error) {
	if math.IsNaN(sizeInBytes) {
		return 0, common.NewInvalidMetricError("SizeInKB", sizeInBytes)
	}
	return sizeInBytes / bytesPerKB, nil
}

// TotalSizeInKB sums per-sub-resource byte counts (e.g. one value per index) and converts
// the total to kilobytes. An empty slice totals 0.
func TotalSizeInKB(sizesInBytes []float64) (float64, error) {
	if len(sizesInBytes) == 0 {
		return 0, nil
	}

	var total float64
	for _, size := range sizesInBytes {
		total += size
	}

	totalKB, err := SizeInKB(total)
	if err != nil {
		return 0, common.NewInvalidMetricError("TotalSizeInKB", total)
	}
	return totalKB, nil
}

// ThresholdEvaluator tests measured quantities against a fraction of their capacity.
// It never returns an error: bad input is logged and reported as not exceeded.
type ThresholdEvaluator struct {
	logger *slog.Logger
}

// NewThresholdEvaluator creates an evaluator that logs through logger
func NewThresholdEvaluator(logger *slog.Logger) *ThresholdEvaluator {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &ThresholdEvaluator{logger: logger}
}

// IsExceeded reports whether measuredBytes > capacityBytes*ratio after converting both to
// kilobytes. A zero measured or capacity value is never exceeded.
func (e *ThresholdEvaluator) IsExceeded(measuredBytes, capacityBytes, ratio float64) bool {
	measuredKB, err := SizeInKB(measuredBytes)
	if err != nil {
		e.logger.Error("error in calculating threshold", "error", err)
		return false
	}
	return e.compare(measuredKB, capacityBytes, ratio)
}

// IsSizeThresholdExceeded sums sizesInBytes across sub-resources and tests the total
// against capacityBytes*ratio.
func (e *ThresholdEvaluator) IsSizeThresholdExceeded(sizesInBytes []float64, capacityBytes, ratio float64) bool {
	measuredKB, err := TotalSizeInKB(sizesInBytes)
	if err != nil {
		e.logger.Error("error in calculating size threshold", "error", err)
		return false
	}
	return e.compare(measuredKB, capacityBytes, ratio)
}

func (e *ThresholdEvaluator) compare(measuredKB, capacityBytes, ratio float64) bool {
	capacityKB, err := SizeInKB(capacityBytes)
	if err != nil {
		e.logger.Error("error in calculating capacity", "error", err)
		return false
	}

	e.logger.Debug("threshold check",
		"measuredKB", measuredKB,
		"capacityKB", capacityKB,
		"ratio", ratio)

	return measuredKB != 0 && capacityKB != 0 && measuredKB > capacityKB*ratio
}
