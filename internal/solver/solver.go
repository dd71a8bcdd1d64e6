package solver

import (
	"github.com/san-kum/diffeq/internal/diffeq"
)

// StepState is scheme-specific auxiliary data threaded through steps,
// opaque to the driver. Schemes must treat it as immutable: Step returns a
// fresh value and never mutates its argument, so a rejected step can be
// retried from the pre-step snapshot without restoration work.
type StepState interface{}

// Result is the outcome of one step attempt.
type Result struct {
	Y1 diffeq.State

	// ErrEst is the embedded local-error estimate, nil for schemes
	// without one (fixed-step only).
	ErrEst diffeq.State

	// F0 and F1 are per-unit-time slopes at the step endpoints, used to
	// build the dense interpolant. Nil when the scheme does not report
	// them; the driver falls back to linear interpolation.
	F0, F1 diffeq.State

	State StepState
}

// Solver advances an equation by one step.
type Solver interface {
	// Order is the scheme's convergence order, used by the adaptive
	// controller's step-size exponent.
	Order() int

	// ErrorEstimate reports whether Step fills Result.ErrEst. Pairing a
	// scheme without an estimate with an adaptive controller is a
	// configuration error, rejected before the loop starts.
	ErrorEstimate() bool

	Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error)

	Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error)
}

// increments queries each term's driving path once per step attempt.
func increments(terms diffeq.Terms, t0, t1 float64) []diffeq.Increment {
	incs := make([]diffeq.Increment, len(terms))
	for j, term := range terms {
		incs[j] = term.Increment(t0, t1)
	}
	return incs
}

// contribution evaluates every term at (t, y) and sums the contracted
// contributions. The result carries the step increment, so stage values are
// combined with plain tableau weights.
func contribution(terms diffeq.Terms, t float64, y diffeq.State, args diffeq.Args, incs []diffeq.Increment) (diffeq.State, error) {
	var sum diffeq.State
	for j, term := range terms {
		vf, err := diffeq.Evaluate(term, t, y, args)
		if err != nil {
			return nil, err
		}
		c := term.Contract(vf, incs[j])
		if sum == nil {
			sum = c
		} else {
			for i := range sum {
				sum[i] += c[i]
			}
		}
	}
	return sum, nil
}
