package common

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input parameter")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrInvalidMetric indicates a metric value that cannot be used in a computation
	ErrInvalidMetric = errors.New("invalid metric value")
)

// IsNotFound checks if err is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if err is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnavailable checks if err is or wraps ErrUnavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// NotFoundError returns a wrapped not found error with context
func NotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidInputError returns a wrapped invalid input error with context
func InvalidInputError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// UnavailableError returns a wrapped unavailable error with context
func UnavailableError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnavailable)
}

// InvalidMetricError reports a NaN or otherwise unusable value reaching a unit conversion.
type InvalidMetricError struct {
	Operation string
	Value     float64
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid value %v in %s", e.Value, e.Operation)
}

// Unwrap lets errors.Is match ErrInvalidMetric
func (e *InvalidMetricError) Unwrap() error {
	return ErrInvalidMetric
}

// NewInvalidMetricError creates a new invalid metric error
func NewInvalidMetricError(operation string, value float64) error {
	return &InvalidMetricError{Operation: operation, Value: value}
}

// IsInvalidMetricError checks if err is or wraps an InvalidMetricError
func IsInvalidMetricError(err error) bool {
	var invalid *InvalidMetricError
	return errors.As(err, &invalid)
}

// ErrNodeNotFound represents a missing node error
type ErrNodeNotFound struct {
	NodeName string
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %s", e.NodeName)
}

// NewNodeNotFoundError creates a new node not found error
func NewNodeNotFoundError(nodeName string) error {
	return ErrNodeNotFound{NodeName: nodeName}
}

// ErrMetricsUnavailable represents metrics collection failures
type ErrMetricsUnavailable struct {
	NodeName string
	Reason   string
}

func (e ErrMetricsUnavailable) Error() string {
	return fmt.Sprintf("metrics unavailable for node %s: %s", e.NodeName, e.Reason)
}

// NewMetricsUnavailableError creates a new metrics unavailable error
func NewMetricsUnavailableError(nodeName, reason string) error {
	return ErrMetricsUnavailable{
		NodeName: nodeName,
		Reason:   reason,
	}
}

// IsNodeNotFoundError Error type checking helpers
func IsNodeNotFoundError(err error) bool {
	var errNodeNotFound ErrNodeNotFound
	return errors.As(err, &errNodeNotFound)
}

func IsMetricsUnavailableError(err error) bool {
	var errMetricsUnavailable ErrMetricsUnavailable
	return errors.As(err, &errMetricsUnavailable)
}
