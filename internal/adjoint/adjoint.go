// Package adjoint computes gradients of a solve's output with respect to
// its inputs.
//
// Three strategies share one contract: given the forward solve's closure
// and an upstream gradient on the final state, return gradients on the
// initial state, the parameters, and the time bounds.
//
//   - [Direct] differentiates straight through the forward loop as
//     executed, retaining every step. Simplest, memory proportional to the
//     step count.
//   - [Checkpoint] retains a logarithmic set of snapshots and recomputes
//     forward segments on demand during the backward pass. The replayed
//     segments are bit-identical to the original because the accepted step
//     grid, the solver state, and the controller state are checkpointed
//     together.
//   - [Backsolve] re-solves the equation's augmented adjoint ODE backward
//     in time, storing nothing but the final state. Fails with
//     ErrReverseIntegration when the backward pass cannot reproduce the
//     forward trajectory.
//
// The strategy is an explicit configuration choice, never inferred.
package adjoint

import (
	"context"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
)

// Gradients are the sensitivities of the seeded output functional.
type Gradients struct {
	Y0   diffeq.State
	Args diffeq.Args
	T0   float64
	T1   float64
}

// Strategy propagates an upstream gradient on the final state back to the
// solve's inputs. The returned Solution is the forward solve, valid even
// when gradient computation fails.
type Strategy interface {
	Gradient(ctx context.Context, scheme solver.Solver, p solve.Problem, opts solve.Options, seed diffeq.State) (*solve.Solution, *Gradients, error)
}

// boundaryGradients derives the time-bound sensitivities from the chain
// rule at the span endpoints: dL/dt1 = seed . y'(t1), dL/dt0 = -a(t0) . y'(t0).
func boundaryGradients(p solve.Problem, sol *solve.Solution, seed, a0 diffeq.State) (gt0, gt1 float64) {
	if len(sol.Records) == 0 {
		return 0, 0
	}
	first := sol.Records[0]
	last := sol.Records[len(sol.Records)-1]

	f1 := last.Interp.Derivative(last.T1)
	for i := range seed {
		gt1 += seed[i] * f1[i]
	}

	f0 := first.Interp.Derivative(first.T0)
	for i := range a0 {
		gt0 -= a0[i] * f0[i]
	}
	return gt0, gt1
}
