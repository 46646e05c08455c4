package packing

import (
	"errors"
	"fmt"
)

var (
	// ErrResolutionMismatch is returned when two shapes with different radial
	// resolutions are compared. This is a caller bug, not a recoverable state.
	ErrResolutionMismatch = errors.New("shapes have different radial resolutions")

	// ErrEmptyBasis is returned alongside the initial state when an
	// optimization is requested but no variable basis parameters exist.
	ErrEmptyBasis = errors.New("no variable basis parameters to optimize")
)

// NumericError reports a non-finite value from a geometric operation,
// most commonly a NaN packing fraction. It carries the cell geometry that
// produced it.
type NumericError struct {
	Op    string
	XLen  float64
	YLen  float64
	Angle float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%s: non-finite result (cell a=%g b=%g angle=%g)",
		e.Op, e.XLen, e.YLen, e.Angle)
}
