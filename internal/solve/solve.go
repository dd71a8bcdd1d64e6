package solve

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/interp"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

const DefaultMaxSteps = 10000

// Problem is the forward solve closure: the equation, the time span, the
// initial step, the initial state, and the free parameters.
type Problem struct {
	Terms diffeq.Terms
	T0    float64
	T1    float64
	Dt0   float64
	Y0    diffeq.State
	Args  diffeq.Args
}

// EventFunc signals a termination event by a sign change across a step.
type EventFunc func(t float64, y diffeq.State, args diffeq.Args) float64

// Options selects the step-size controller and the save/event policy.
type Options struct {
	// Controller accepts/rejects steps; defaults to a constant-step
	// controller at Dt0.
	Controller stepsize.Controller

	// SaveAt lists strictly increasing save times within [T0, T1];
	// values are reconstructed from the dense interpolant without
	// altering step boundaries. Nil saves every accepted step endpoint.
	SaveAt []float64

	// Event, when non-nil, terminates the solve at the sign crossing.
	Event EventFunc

	// MaxSteps bounds accepted plus rejected attempts; 0 means
	// DefaultMaxSteps.
	MaxSteps int
}

// countingTerm wraps a Term to count vector-field evaluations.
type countingTerm struct {
	diffeq.Term
	evals *int
}

func (c countingTerm) Evaluate(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
	*c.evals++
	return c.Term.Evaluate(t, y, args)
}

// Solve integrates the problem with the given stepping scheme.
//
// Budget exhaustion and numerical divergence do not return an error: the
// partial Solution comes back tagged with the failure status and the cause
// in Solution.Err, so batched callers see a uniform result shape. Only a
// failed term evaluation (user error) and invalid configuration propagate
// as errors, alongside context cancellation.
func Solve(ctx context.Context, scheme solver.Solver, p Problem, opts Options) (*Solution, error) {
	if err := validate(scheme, p, &opts); err != nil {
		return nil, err
	}

	sol := &Solution{}

	terms := make(diffeq.Terms, len(p.Terms))
	for i, term := range p.Terms {
		terms[i] = countingTerm{Term: term, evals: &sol.Stats.Evaluations}
	}

	st, err := scheme.Init(terms, p.T0, p.Y0, p.Args)
	if err != nil {
		return nil, err
	}
	cs := opts.Controller.Start(p.Dt0)

	t := p.T0
	y := p.Y0.Clone()

	saveIdx := 0
	if opts.SaveAt == nil {
		sol.Ts = append(sol.Ts, t)
		sol.Ys = append(sol.Ys, y.Clone())
	} else if saveIdx < len(opts.SaveAt) && opts.SaveAt[saveIdx] == p.T0 {
		sol.Ts = append(sol.Ts, p.T0)
		sol.Ys = append(sol.Ys, y.Clone())
		saveIdx++
	}

	var prevEvent float64
	if opts.Event != nil {
		prevEvent = opts.Event(t, y, p.Args)
	}

	retriedImplicit := false

	for t < p.T1 {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		if sol.Stats.Steps >= opts.MaxSteps {
			sol.Status = StatusMaxSteps
			sol.Err = &diffeq.StepError{T: t, Dt: cs.Dt, Y: y, Wrapped: diffeq.ErrMaxStepsExceeded}
			return sol, nil
		}

		dt := cs.Dt
		tNext := t + dt
		// land exactly on t1; the relative slack absorbs accumulated
		// rounding so a step size dividing the span hits it in one piece
		if tNext >= p.T1 || p.T1-tNext < 1e-9*dt {
			dt = p.T1 - t
			tNext = p.T1
		}

		res, stepErr := scheme.Step(terms, t, tNext, y, p.Args, st)
		if stepErr != nil {
			if errors.Is(stepErr, diffeq.ErrImplicitStepDivergence) && !retriedImplicit {
				// one retry at a shrunk step, then fatal
				retriedImplicit = true
				sol.Stats.Steps++
				sol.Stats.Rejected++
				cs.Dt = dt / 2
				continue
			}
			if errors.Is(stepErr, diffeq.ErrTermEvaluation) {
				return sol, stepErr
			}
			sol.Status = StatusDiverged
			sol.Err = stepErr
			return sol, nil
		}

		ratio := opts.Controller.Ratio(res.ErrEst, y, res.Y1)
		dec, nextCS, ctrlErr := opts.Controller.Decide(cs, dt, ratio, scheme.Order())
		if ctrlErr != nil {
			sol.Status = StatusDiverged
			sol.Err = ctrlErr
			return sol, nil
		}

		sol.Stats.Steps++

		if !dec.Accept {
			// retry from the pre-step snapshot; solver state and y are
			// untouched by the rejected attempt
			sol.Stats.Rejected++
			cs = nextCS
			continue
		}

		if !res.Y1.IsValid() {
			sol.Status = StatusDiverged
			sol.Err = &diffeq.StepError{T: t, Dt: dt, Y: y, Wrapped: fmt.Errorf("diffeq: state diverged (NaN or Inf)")}
			return sol, nil
		}

		retriedImplicit = false

		rec := StepRecord{
			T0:     t,
			T1:     tNext,
			Y0:     y.Clone(),
			Y1:     res.Y1,
			ErrEst: res.ErrEst,
			Interp: interp.NewHermite(t, tNext, y.Clone(), res.Y1, res.F0, res.F1),
		}

		eventHit := false
		if opts.Event != nil {
			cur := opts.Event(rec.T1, rec.Y1, p.Args)
			if cur == 0 || (prevEvent < 0) != (cur < 0) {
				tc := bisectEvent(rec.Interp, opts.Event, p.Args, rec.T0, rec.T1, prevEvent)
				yc := rec.Interp.Evaluate(tc)
				rec.T1 = tc
				rec.Y1 = yc
				eventHit = true
			}
			prevEvent = cur
		}

		sol.Records = append(sol.Records, rec)

		// saves lie in (t0, t1] of the accepted (possibly truncated) step
		if opts.SaveAt == nil {
			sol.Ts = append(sol.Ts, rec.T1)
			sol.Ys = append(sol.Ys, rec.Y1.Clone())
		} else {
			for saveIdx < len(opts.SaveAt) && opts.SaveAt[saveIdx] <= rec.T1 {
				ts := opts.SaveAt[saveIdx]
				var ys diffeq.State
				if ts == rec.T1 {
					ys = rec.Y1.Clone()
				} else {
					ys = rec.Interp.Evaluate(ts)
				}
				sol.Ts = append(sol.Ts, ts)
				sol.Ys = append(sol.Ys, ys)
				saveIdx++
			}
		}

		t = rec.T1
		y = rec.Y1.Clone()
		st = res.State
		cs = nextCS

		if eventHit {
			sol.Status = StatusEventTerminated
			sol.EventT = rec.T1
			return sol, nil
		}
	}

	sol.Status = StatusCompleted
	return sol, nil
}

func validate(scheme solver.Solver, p Problem, opts *Options) error {
	if len(p.Terms) == 0 {
		return fmt.Errorf("diffeq: no terms")
	}
	if p.Dt0 <= 0 {
		return fmt.Errorf("diffeq: dt0 must be positive, got %g", p.Dt0)
	}
	if p.T1 <= p.T0 {
		return fmt.Errorf("diffeq: t1 must exceed t0")
	}
	if len(p.Y0) == 0 {
		return fmt.Errorf("diffeq: empty initial state")
	}
	if opts.Controller == nil {
		opts.Controller = stepsize.NewConstant()
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if _, adaptive := opts.Controller.(*stepsize.PID); adaptive && !scheme.ErrorEstimate() {
		return diffeq.ErrFixedStepOnly
	}
	for i := 1; i < len(opts.SaveAt); i++ {
		if opts.SaveAt[i] <= opts.SaveAt[i-1] {
			return fmt.Errorf("diffeq: save times must be strictly increasing")
		}
	}
	if n := len(opts.SaveAt); n > 0 {
		if opts.SaveAt[0] < p.T0 || opts.SaveAt[n-1] > p.T1 {
			return fmt.Errorf("diffeq: save times outside [t0, t1]")
		}
	}
	return nil
}

// bisectEvent locates the sign crossing of the event function within an
// accepted step using its dense interpolant.
func bisectEvent(h *interp.Hermite, event EventFunc, args diffeq.Args, lo, hi, evLo float64) float64 {
	for i := 0; i < 80 && hi-lo > 1e-14*(1+math.Abs(hi)); i++ {
		mid := 0.5 * (lo + hi)
		v := event(mid, h.Evaluate(mid), args)
		if v == 0 {
			return mid
		}
		if (v < 0) == (evLo < 0) {
			lo = mid
			evLo = v
		} else {
			hi = mid
		}
	}
	return hi
}
