package adjoint

import (
	"context"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
)

// Direct is the unrolled strategy: the forward loop's every accepted step
// is retained, and the backward pass walks the step records in reverse,
// chaining each step's vector-Jacobian product. Memory grows with the step
// count.
type Direct struct{}

func NewDirect() *Direct {
	return &Direct{}
}

func (d *Direct) Gradient(ctx context.Context, scheme solver.Solver, p solve.Problem, opts solve.Options, seed diffeq.State) (*solve.Solution, *Gradients, error) {
	sol, err := solve.Solve(ctx, scheme, p, opts)
	if err != nil {
		return sol, nil, err
	}
	if sol.Status != solve.StatusCompleted && sol.Status != solve.StatusEventTerminated {
		return sol, nil, sol.Err
	}

	a := seed.Clone()
	gargs := make(diffeq.Args, len(p.Args))

	for i := len(sol.Records) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			return sol, nil, ctx.Err()
		default:
		}

		rec := sol.Records[i]
		aPrev, dargs, err := stepVJP(scheme, p, rec.T0, rec.T1, rec.Y0, a)
		if err != nil {
			return sol, nil, err
		}
		a = aPrev
		for j := range gargs {
			gargs[j] += dargs[j]
		}
	}

	gt0, gt1 := boundaryGradients(p, sol, seed, a)

	return sol, &Gradients{Y0: a, Args: gargs, T0: gt0, T1: gt1}, nil
}
