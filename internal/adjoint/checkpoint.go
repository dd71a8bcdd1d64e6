package adjoint

import (
	"context"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
)

// Checkpoint is the recursive-checkpointing strategy. The backward pass
// holds only the states at the recursion split points, logarithmically
// many in the step count, and recomputes the missing forward segments on
// demand. Replayed segments are bit-identical to the original run: the
// accepted step grid fixes every controller decision, and Step is pure in
// (t0, t1, y0, solver state), so recomputation reproduces the forward pass
// exactly.
type Checkpoint struct{}

func NewCheckpoint() *Checkpoint {
	return &Checkpoint{}
}

func (c *Checkpoint) Gradient(ctx context.Context, scheme solver.Solver, p solve.Problem, opts solve.Options, seed diffeq.State) (*solve.Solution, *Gradients, error) {
	sol, err := solve.Solve(ctx, scheme, p, opts)
	if err != nil {
		return sol, nil, err
	}
	if sol.Status != solve.StatusCompleted && sol.Status != solve.StatusEventTerminated {
		return sol, nil, sol.Err
	}

	// accepted step grid: ts[i] -> ts[i+1] is step i
	ts := make([]float64, len(sol.Records)+1)
	ts[0] = p.T0
	for i, rec := range sol.Records {
		ts[i+1] = rec.T1
	}

	st0, err := scheme.Init(p.Terms, p.T0, p.Y0, p.Args)
	if err != nil {
		return sol, nil, err
	}

	a := seed.Clone()
	gargs := make(diffeq.Args, len(p.Args))

	if err := c.backward(ctx, scheme, p, ts, 0, len(sol.Records), p.Y0.Clone(), st0, &a, gargs); err != nil {
		return sol, nil, err
	}

	gt0, gt1 := boundaryGradients(p, sol, seed, a)

	return sol, &Gradients{Y0: a, Args: gargs, T0: gt0, T1: gt1}, nil
}

// backward propagates the adjoint across steps [lo, hi), entered with the
// state and solver state at grid index lo.
func (c *Checkpoint) backward(ctx context.Context, scheme solver.Solver, p solve.Problem, ts []float64, lo, hi int, yLo diffeq.State, stLo solver.StepState, a *diffeq.State, gargs diffeq.Args) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if hi <= lo {
		return nil
	}
	if hi == lo+1 {
		aPrev, dargs, err := stepVJP(scheme, p, ts[lo], ts[lo+1], yLo, *a)
		if err != nil {
			return err
		}
		*a = aPrev
		for j := range gargs {
			gargs[j] += dargs[j]
		}
		return nil
	}

	mid := (lo + hi) / 2

	// recompute forward to the split point, then clear the right half
	// before the left, keeping only split-point snapshots alive
	y := yLo.Clone()
	st := stLo
	for k := lo; k < mid; k++ {
		res, err := scheme.Step(p.Terms, ts[k], ts[k+1], y, p.Args, st)
		if err != nil {
			return err
		}
		y = res.Y1
		st = res.State
	}

	if err := c.backward(ctx, scheme, p, ts, mid, hi, y, st, a, gargs); err != nil {
		return err
	}
	return c.backward(ctx, scheme, p, ts, lo, mid, yLo, stLo, a, gargs)
}
