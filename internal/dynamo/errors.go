package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterBounds indicates a non-finite or non-positive parameter value.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrEmptySeries indicates a series too short for the requested analysis.
	ErrEmptySeries = errors.New("dynamo: not enough samples in series")

	// ErrNotFound indicates an unknown run, preset or chart.
	ErrNotFound = errors.New("dynamo: not found")
)

// ParamError wraps a rejected parameter with its name and value.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// Bounds returns a ParamError wrapping ErrParameterBounds.
func Bounds(name string, value float64) error {
	return &ParamError{Name: name, Value: value, Wrapped: ErrParameterBounds}
}
