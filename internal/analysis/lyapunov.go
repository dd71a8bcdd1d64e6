package analysis

import (
	"context"
	"math"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

// MaxLyapunov estimates the largest Lyapunov exponent by tracking the
// separation of two nearby trajectories, renormalizing after each window
// so the perturbation stays in the linear regime. newScheme builds a
// fresh solver per sub-solve.
func MaxLyapunov(ctx context.Context, newScheme func() solver.Solver, terms diffeq.Terms, y0 diffeq.State, args diffeq.Args, dt, window float64, windows int) (float64, error) {
	const eps = 1e-8

	ref := y0.Clone()
	pert := y0.Clone()
	pert[0] += eps

	t := 0.0
	sum := 0.0

	for w := 0; w < windows; w++ {
		var final [2]diffeq.State
		for i, start := range []diffeq.State{ref, pert} {
			sol, err := solve.Solve(ctx, newScheme(), solve.Problem{
				Terms: terms,
				T0:    t,
				T1:    t + window,
				Dt0:   dt,
				Y0:    start,
				Args:  args,
			}, solve.Options{Controller: stepsize.NewConstant()})
			if err != nil {
				return 0, err
			}
			if sol.Status != solve.StatusCompleted {
				return 0, sol.Err
			}
			_, final[i] = sol.Final()
		}

		d := 0.0
		for i := range final[0] {
			diff := final[1][i] - final[0][i]
			d += diff * diff
		}
		d = math.Sqrt(d)
		if d == 0 {
			d = eps
		}

		sum += math.Log(d / eps)

		// Pull the perturbed trajectory back to distance eps along the
		// current separation direction.
		ref = final[0]
		pert = final[0].Clone()
		for i := range pert {
			pert[i] += (final[1][i] - final[0][i]) * eps / d
		}
		t += window
	}

	return sum / (float64(windows) * window), nil
}
