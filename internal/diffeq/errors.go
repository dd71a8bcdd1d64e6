package diffeq

import (
	"errors"
	"fmt"
)

// Domain errors for solve operations.
var (
	// ErrTermEvaluation indicates a user vector field panicked or returned
	// a value shape-mismatched against the state.
	ErrTermEvaluation = errors.New("diffeq: term evaluation failed")

	// ErrImplicitStepDivergence indicates an implicit scheme's nonlinear
	// sub-solve did not converge within its iteration budget.
	ErrImplicitStepDivergence = errors.New("diffeq: implicit step did not converge")

	// ErrMinStepSizeReached indicates the adaptive controller proposed a
	// step below the configured floor.
	ErrMinStepSizeReached = errors.New("diffeq: step size below minimum")

	// ErrMaxStepsExceeded indicates the cumulative step count exceeded the
	// configured ceiling.
	ErrMaxStepsExceeded = errors.New("diffeq: maximum step count exceeded")

	// ErrReverseIntegration indicates the backward adjoint solve could not
	// hold the forward solve's tolerance.
	ErrReverseIntegration = errors.New("diffeq: backward adjoint solve lost the forward tolerance")

	// ErrFixedStepOnly indicates an adaptive controller was paired with a
	// scheme that reports no error estimate.
	ErrFixedStepOnly = errors.New("diffeq: scheme has no error estimate, adaptive control unavailable")
)

// StepError wraps a failure with the last good position of the solve.
type StepError struct {
	T       float64
	Dt      float64
	Y       State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("t=%.6g dt=%.6g: %v", e.T, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
