package adjoint

import (
	"context"
	"fmt"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

// Backsolve re-solves the equation backward from the final time, carrying
// the adjoint state and the parameter gradient alongside the primal in one
// augmented ODE. Nothing of the forward trajectory is stored beyond the
// final state, at the price of re-integrating the primal in reverse; it
// fails with ErrReverseIntegration when the reconstructed initial state
// drifts from the true one beyond the forward tolerance, as happens for
// non-reversible integrands.
type Backsolve struct {
	// Scheme steps the backward solve; nil reuses the forward scheme.
	Scheme solver.Solver

	// Controller paces the backward solve; nil uses a PID controller at
	// Atol/Rtol.
	Controller stepsize.Controller

	Atol float64
	Rtol float64

	// ReconstructTol bounds the relative mismatch between the
	// reconstructed and true initial states.
	ReconstructTol float64
}

func NewBacksolve() *Backsolve {
	return &Backsolve{
		Atol:           1e-8,
		Rtol:           1e-8,
		ReconstructTol: 1e-4,
	}
}

func (b *Backsolve) Gradient(ctx context.Context, scheme solver.Solver, p solve.Problem, opts solve.Options, seed diffeq.State) (*solve.Solution, *Gradients, error) {
	sol, err := solve.Solve(ctx, scheme, p, opts)
	if err != nil {
		return sol, nil, err
	}
	if sol.Status != solve.StatusCompleted {
		return sol, nil, sol.Err
	}

	for _, term := range p.Terms {
		if _, ok := term.(*diffeq.ODETerm); !ok {
			return sol, nil, fmt.Errorf("%w: non-time-driven term, primal path not reconstructible in reverse", diffeq.ErrReverseIntegration)
		}
	}

	n := len(p.Y0)
	m := len(p.Args)
	tf, yf := sol.Final()

	// augmented state [y, a, gargs] integrated in s = tf - t
	aug := make(diffeq.State, 2*n+m)
	copy(aug[:n], yf)
	copy(aug[n:2*n], seed)

	field := func(s float64, z diffeq.State, _ diffeq.Args) diffeq.State {
		t := tf - s
		y := diffeq.State(z[:n])
		a := diffeq.State(z[n : 2*n])

		out := make(diffeq.State, 2*n+m)
		for _, term := range p.Terms {
			f := term.Evaluate(t, y, p.Args)
			dy, dargs := fieldVJP(term, t, y, p.Args, a)
			for i := 0; i < n; i++ {
				out[i] -= f[i]
				out[n+i] += dy[i]
			}
			for j := 0; j < m; j++ {
				out[2*n+j] += dargs[j]
			}
		}
		return out
	}

	backScheme := b.Scheme
	if backScheme == nil {
		backScheme = scheme
	}
	ctrl := b.Controller
	if ctrl == nil && backScheme.ErrorEstimate() {
		ctrl = stepsize.NewPID(b.Atol, b.Rtol)
	}

	span := tf - p.T0
	dt0 := p.Dt0
	if dt0 > span {
		dt0 = span
	}

	back, err := solve.Solve(ctx, backScheme, solve.Problem{
		Terms: diffeq.ODE(field),
		T0:    0,
		T1:    span,
		Dt0:   dt0,
		Y0:    aug,
	}, solve.Options{Controller: ctrl, MaxSteps: opts.MaxSteps})
	if err != nil {
		return sol, nil, err
	}
	if back.Status != solve.StatusCompleted {
		return sol, nil, &diffeq.StepError{T: p.T0, Wrapped: fmt.Errorf("%w: backward solve %v: %v", diffeq.ErrReverseIntegration, back.Status, back.Err)}
	}

	_, zf := back.Final()
	reconstructed := diffeq.State(zf[:n]).Clone()
	a0 := diffeq.State(zf[n : 2*n]).Clone()
	gargs := diffeq.Args(zf[2*n:]).Clone()

	if drift := reconstructed.Sub(p.Y0).Norm(); drift > b.ReconstructTol*(1+p.Y0.Norm()) {
		return sol, nil, &diffeq.StepError{T: p.T0, Y: reconstructed, Wrapped: fmt.Errorf("%w: primal reconstruction drifted by %.3g", diffeq.ErrReverseIntegration, drift)}
	}

	gt0, gt1 := boundaryGradients(p, sol, seed, a0)

	return sol, &Gradients{Y0: a0, Args: gargs, T0: gt0, T1: gt1}, nil
}
