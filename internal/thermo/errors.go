package thermo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for chain evaluations.
var (
	// ErrNonConvergence indicates a root solve exhausted its iteration budget.
	ErrNonConvergence = errors.New("thermo: root solve did not converge")

	// ErrInvalidParameter indicates a non-positive or otherwise unusable parameter.
	ErrInvalidParameter = errors.New("thermo: invalid parameter")

	// ErrOutOfRange indicates an argument outside the domain of a relation,
	// e.g. an extension at or beyond full stretch of an inextensible chain.
	ErrOutOfRange = errors.New("thermo: argument out of range")

	// ErrUnknownModel indicates a model name outside the known set.
	ErrUnknownModel = errors.New("thermo: unknown model")
)

// ParameterError names the offending parameter.
type ParameterError struct {
	Name  string
	Value float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("thermo: invalid parameter %s=%g", e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// RangeError wraps ErrOutOfRange with the argument and its admissible bound.
type RangeError struct {
	Quantity string
	Value    float64
	Limit    float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("thermo: %s=%g exceeds limit %g", e.Quantity, e.Value, e.Limit)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Positive returns a *ParameterError unless value is finite and > 0.
func Positive(name string, value float64) error {
	if !(value > 0) || math.IsInf(value, 1) {
		return &ParameterError{Name: name, Value: value}
	}
	return nil
}
