package solve

import (
	"context"
	"sync"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

// Batch runs many independent solves of the same configuration over a
// batch of initial conditions. Every replica owns fresh solver and
// controller instances; nothing is shared between in-flight solves.
type Batch struct {
	// NewSolver and NewController build per-replica instances.
	NewSolver     func() solver.Solver
	NewController func() stepsize.Controller

	SaveAt   []float64
	Event    EventFunc
	MaxSteps int
}

// Run solves the problem once per initial condition. Failure statuses are
// reported inside each Solution; only configuration and term-evaluation
// errors abort the batch.
func (b *Batch) Run(ctx context.Context, p Problem, y0s []diffeq.State) ([]*Solution, error) {
	results := make([]*Solution, len(y0s))
	errs := make([]error, len(y0s))

	var wg sync.WaitGroup
	for i := range y0s {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			replica := p
			replica.Y0 = y0s[idx]

			opts := Options{
				SaveAt:   b.SaveAt,
				Event:    b.Event,
				MaxSteps: b.MaxSteps,
			}
			if b.NewController != nil {
				opts.Controller = b.NewController()
			}

			results[idx], errs[idx] = Solve(ctx, b.NewSolver(), replica, opts)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
