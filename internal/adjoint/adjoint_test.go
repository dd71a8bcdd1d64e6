package adjoint

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffeq/internal/brownian"
	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

// dy/dt = -args[0]*y with closed-form solution and gradients.
func paramDecay() solve.Problem {
	return solve.Problem{
		Terms: diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
			return diffeq.State{-args[0] * y[0]}
		}),
		T0:   0,
		T1:   1,
		Dt0:  0.05,
		Y0:   diffeq.State{1.5},
		Args: diffeq.Args{2},
	}
}

// analytic gradients of L = y(T1) for paramDecay
func decayGradients(p solve.Problem) (gy0, garg, gt0, gt1 float64) {
	a := p.Args[0]
	span := p.T1 - p.T0
	e := math.Exp(-a * span)
	gy0 = e
	garg = -p.Y0[0] * span * e
	gt1 = -a * p.Y0[0] * e
	gt0 = a * p.Y0[0] * e
	return
}

func TestDirect_MatchesAnalytic(t *testing.T) {
	p := paramDecay()
	sol, grads, err := NewDirect().Gradient(context.Background(), solver.NewDopri5(), p, solve.Options{}, diffeq.State{1})
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	if sol.Status != solve.StatusCompleted {
		t.Fatalf("forward solve %v", sol.Status)
	}

	gy0, garg, gt0, gt1 := decayGradients(p)
	if math.Abs(grads.Y0[0]-gy0) > 1e-4 {
		t.Errorf("dL/dy0: expected %f, got %f", gy0, grads.Y0[0])
	}
	if math.Abs(grads.Args[0]-garg) > 1e-4 {
		t.Errorf("dL/da: expected %f, got %f", garg, grads.Args[0])
	}
	if math.Abs(grads.T0-gt0) > 1e-4 {
		t.Errorf("dL/dt0: expected %f, got %f", gt0, grads.T0)
	}
	if math.Abs(grads.T1-gt1) > 1e-4 {
		t.Errorf("dL/dt1: expected %f, got %f", gt1, grads.T1)
	}
}

func TestCheckpoint_MatchesDirect(t *testing.T) {
	p := paramDecay()
	seed := diffeq.State{1}

	_, direct, err := NewDirect().Gradient(context.Background(), solver.NewDopri5(), p, solve.Options{}, seed)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	_, ckpt, err := NewCheckpoint().Gradient(context.Background(), solver.NewDopri5(), p, solve.Options{}, seed)
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	// the replayed segments are bit-identical, so the strategies agree to
	// floating-point roundoff
	if math.Abs(direct.Y0[0]-ckpt.Y0[0]) > 1e-12 {
		t.Errorf("dL/dy0 disagrees: %g vs %g", direct.Y0[0], ckpt.Y0[0])
	}
	if math.Abs(direct.Args[0]-ckpt.Args[0]) > 1e-12 {
		t.Errorf("dL/da disagrees: %g vs %g", direct.Args[0], ckpt.Args[0])
	}
	if direct.T0 != ckpt.T0 || direct.T1 != ckpt.T1 {
		t.Errorf("time gradients disagree")
	}
}

func TestCheckpoint_AdaptiveGrid(t *testing.T) {
	p := paramDecay()
	opts := solve.Options{Controller: stepsize.NewPID(1e-8, 1e-8)}
	seed := diffeq.State{1}

	_, direct, err := NewDirect().Gradient(context.Background(), solver.NewDopri5(), p, opts, seed)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	_, ckpt, err := NewCheckpoint().Gradient(context.Background(), solver.NewDopri5(), p, opts, seed)
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	if math.Abs(direct.Y0[0]-ckpt.Y0[0]) > 1e-12 {
		t.Errorf("adaptive grids disagree: %g vs %g", direct.Y0[0], ckpt.Y0[0])
	}
}

func TestBacksolve_MatchesAnalytic(t *testing.T) {
	p := paramDecay()
	sol, grads, err := NewBacksolve().Gradient(context.Background(), solver.NewDopri5(), p, solve.Options{}, diffeq.State{1})
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}
	if sol.Status != solve.StatusCompleted {
		t.Fatalf("forward solve %v", sol.Status)
	}

	gy0, garg, _, _ := decayGradients(p)
	if math.Abs(grads.Y0[0]-gy0) > 1e-3 {
		t.Errorf("dL/dy0: expected %f, got %f", gy0, grads.Y0[0])
	}
	if math.Abs(grads.Args[0]-garg) > 1e-3 {
		t.Errorf("dL/da: expected %f, got %f", garg, grads.Args[0])
	}
}

func TestBacksolve_ForwardValueSurvivesGradientFailure(t *testing.T) {
	w := brownian.New(42, 1e-4)
	p := solve.Problem{
		Terms: diffeq.SDE(
			func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
				return diffeq.State{-y[0]}
			},
			func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
				return diffeq.State{0.1}
			},
			w,
		),
		T0:  0,
		T1:  1,
		Dt0: 0.01,
		Y0:  diffeq.State{1},
	}

	sol, grads, err := NewBacksolve().Gradient(context.Background(), solver.NewEuler(), p, solve.Options{}, diffeq.State{1})
	if !errors.Is(err, diffeq.ErrReverseIntegration) {
		t.Fatalf("expected ErrReverseIntegration, got %v", err)
	}
	if grads != nil {
		t.Error("expected nil gradients on reverse failure")
	}
	if sol == nil || sol.Status != solve.StatusCompleted {
		t.Error("forward solution should remain valid when the gradient fails")
	}
}

type analyticDecay struct {
	diffeq.ODETerm
}

func (a *analyticDecay) VJP(t float64, y diffeq.State, args diffeq.Args, cot diffeq.State) (diffeq.State, diffeq.Args) {
	return diffeq.State{-args[0] * cot[0]}, diffeq.Args{-y[0] * cot[0]}
}

func TestFieldVJP_AnalyticPath(t *testing.T) {
	term := &analyticDecay{diffeq.ODETerm{F: func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-args[0] * y[0]}
	}}}

	y := diffeq.State{1.5}
	args := diffeq.Args{2}
	cot := diffeq.State{1}

	dy, dargs := fieldVJP(term, 0, y, args, cot)
	fdDy, fdDargs := fieldVJP(&term.ODETerm, 0, y, args, cot)

	if math.Abs(dy[0]-fdDy[0]) > 1e-6 {
		t.Errorf("analytic and finite-difference dy disagree: %g vs %g", dy[0], fdDy[0])
	}
	if math.Abs(dargs[0]-fdDargs[0]) > 1e-6 {
		t.Errorf("analytic and finite-difference dargs disagree: %g vs %g", dargs[0], fdDargs[0])
	}
}

func TestDirect_OscillatorSeededComponents(t *testing.T) {
	// y(t) = [cos t, -sin t]; dL/dy0 for L = y0-component of y(1) is
	// [cos 1, sin 1] against initial [1, 0] basis... verified against a
	// finite-difference probe of the whole solve instead of closed form.
	p := solve.Problem{
		Terms: diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
			return diffeq.State{y[1], -y[0]}
		}),
		T0:  0,
		T1:  1,
		Dt0: 0.05,
		Y0:  diffeq.State{1, 0},
	}

	_, grads, err := NewDirect().Gradient(context.Background(), solver.NewDopri5(), p, solve.Options{}, diffeq.State{1, 0})
	if err != nil {
		t.Fatalf("Gradient: %v", err)
	}

	probe := func(y0 diffeq.State) float64 {
		sol, err := solve.Solve(context.Background(), solver.NewDopri5(), solve.Problem{
			Terms: p.Terms, T0: p.T0, T1: p.T1, Dt0: p.Dt0, Y0: y0,
		}, solve.Options{})
		if err != nil {
			t.Fatalf("probe: %v", err)
		}
		_, yf := sol.Final()
		return yf[0]
	}

	eps := 1e-6
	for i := 0; i < 2; i++ {
		yp := p.Y0.Clone()
		ym := p.Y0.Clone()
		yp[i] += eps
		ym[i] -= eps
		fd := (probe(yp) - probe(ym)) / (2 * eps)
		if math.Abs(grads.Y0[i]-fd) > 1e-4 {
			t.Errorf("component %d: adjoint %g vs finite difference %g", i, grads.Y0[i], fd)
		}
	}
}
