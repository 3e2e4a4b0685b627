package md

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrNoRNG indicates construction of a stochastic component without
	// a random source.
	ErrNoRNG = errors.New("md: system has no random source")

	// ErrInvalidState indicates a particle with NaN or Inf components.
	ErrInvalidState = errors.New("md: invalid particle state (NaN or Inf detected)")

	// ErrBadTimestep indicates a non-positive integration timestep.
	ErrBadTimestep = errors.New("md: timestep must be positive")

	// ErrBadCutoff indicates a non-positive interaction cutoff.
	ErrBadCutoff = errors.New("md: cutoff must be positive")
)

// StepError wraps an error with integration context.
type StepError struct {
	Step    int64
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
