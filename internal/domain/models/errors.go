package models

import "fmt"

// ValidationKind classifies a rejected forecast input.
type ValidationKind string

const (
	InsufficientData ValidationKind = "INSUFFICIENT_DATA"
	DegenerateInput  ValidationKind = "DEGENERATE_INPUT"
)

// ValidationError is returned synchronously when a price series cannot be forecast.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Got     int
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// NewInsufficientData reports a series shorter than min bars.
func NewInsufficientData(got, min int) *ValidationError {
	return &ValidationError{
		Kind:    InsufficientData,
		Message: fmt.Sprintf("need at least %d price bars, got %d", min, got),
		Got:     got,
	}
}

// NewDegenerateInput reports an unusable close at index i.
func NewDegenerateInput(i int, v float64) *ValidationError {
	return &ValidationError{
		Kind:    DegenerateInput,
		Message: fmt.Sprintf("close at index %d is not a finite non-negative number: %v", i, v),
		Got:     i,
	}
}
