package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffeq/internal/diffeq"
)

func decayTerms() diffeq.Terms {
	return diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-y[0]}
	})
}

func oscillatorTerms() diffeq.Terms {
	return diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{y[1], -y[0]}
	})
}

func oscillatorEnergy(y diffeq.State) float64 {
	return 0.5 * (y[0]*y[0] + y[1]*y[1])
}

func run(t *testing.T, s Solver, terms diffeq.Terms, y0 diffeq.State, t0, t1 float64, steps int) diffeq.State {
	t.Helper()
	st, err := s.Init(terms, t0, y0, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	dt := (t1 - t0) / float64(steps)
	y := y0.Clone()
	for i := 0; i < steps; i++ {
		ta := t0 + float64(i)*dt
		res, err := s.Step(terms, ta, ta+dt, y, nil, st)
		if err != nil {
			t.Fatalf("Step at t=%f: %v", ta, err)
		}
		y = res.Y1
		st = res.State
	}
	return y
}

func TestEuler_Decay(t *testing.T) {
	y := run(t, NewEuler(), decayTerms(), diffeq.State{1}, 0, 1, 1000)
	exact := math.Exp(-1)
	if math.Abs(y[0]-exact) > 1e-3 {
		t.Errorf("expected %f, got %f", exact, y[0])
	}
}

func TestHeun_Decay(t *testing.T) {
	y := run(t, NewHeun(), decayTerms(), diffeq.State{1}, 0, 1, 100)
	exact := math.Exp(-1)
	if math.Abs(y[0]-exact) > 1e-4 {
		t.Errorf("expected %f, got %f", exact, y[0])
	}
}

func TestDopri5_Decay(t *testing.T) {
	y := run(t, NewDopri5(), decayTerms(), diffeq.State{2}, 0, 1, 10)
	exact := 2 * math.Exp(-1)
	if math.Abs(y[0]-exact) > 1e-8 {
		t.Errorf("expected %f, got %f", exact, y[0])
	}
}

func TestDopri5_ErrorEstimateShrinksWithStep(t *testing.T) {
	s := NewDopri5()
	terms := oscillatorTerms()
	y0 := diffeq.State{1, 0}

	resBig, err := s.Step(terms, 0, 0.2, y0, nil, nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	resSmall, err := s.Step(terms, 0, 0.02, y0, nil, nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	if resSmall.ErrEst.Norm() >= resBig.ErrEst.Norm() {
		t.Errorf("error estimate did not shrink: %e vs %e", resSmall.ErrEst.Norm(), resBig.ErrEst.Norm())
	}
}

func TestImplicitEuler_StiffDecay(t *testing.T) {
	// dy/dt = -50y is unstable for explicit Euler at dt=0.1 but the
	// implicit scheme stays bounded.
	stiff := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-50 * y[0]}
	})
	y := run(t, NewImplicitEuler(), stiff, diffeq.State{1}, 0, 1, 10)
	if math.Abs(y[0]) > 1 {
		t.Errorf("implicit Euler diverged on stiff problem: %f", y[0])
	}
}

func TestImplicitEuler_Divergence(t *testing.T) {
	s := NewImplicitEuler()
	s.MaxIters = 1
	// Strongly nonlinear field where one Newton iteration cannot converge
	// at a large step.
	terms := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{math.Exp(5 * y[0])}
	})
	st, _ := s.Init(terms, 0, diffeq.State{1}, nil)
	_, err := s.Step(terms, 0, 10, diffeq.State{1}, nil, st)
	if !errors.Is(err, diffeq.ErrImplicitStepDivergence) {
		t.Errorf("expected ErrImplicitStepDivergence, got %v", err)
	}
}

func TestLeapfrog_EnergyConservation(t *testing.T) {
	s := NewLeapfrog()
	terms := oscillatorTerms()
	y := diffeq.State{1, 0}
	initial := oscillatorEnergy(y)

	st, _ := s.Init(terms, 0, y, nil)
	dt := 0.01
	for i := 0; i < 10000; i++ {
		res, err := s.Step(terms, float64(i)*dt, float64(i+1)*dt, y, nil, st)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		y = res.Y1
		st = res.State
	}

	drift := math.Abs(oscillatorEnergy(y)-initial) / initial
	if drift > 1e-3 {
		t.Errorf("leapfrog energy drift too high: %e", drift)
	}
}

func TestStep_TermEvaluationError(t *testing.T) {
	bad := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{1, 2, 3}
	})
	_, err := NewEuler().Step(bad, 0, 0.1, diffeq.State{1}, nil, nil)
	if !errors.Is(err, diffeq.ErrTermEvaluation) {
		t.Errorf("expected ErrTermEvaluation, got %v", err)
	}

	panics := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		panic("boom")
	})
	_, err = NewEuler().Step(panics, 0, 0.1, diffeq.State{1}, nil, nil)
	if !errors.Is(err, diffeq.ErrTermEvaluation) {
		t.Errorf("expected ErrTermEvaluation on panic, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"euler", "heun", "dopri5", "ieuler", "leapfrog"} {
		s, err := r.Get(name)
		if err != nil {
			t.Errorf("Get(%s): %v", name, err)
		}
		if s == nil {
			t.Errorf("Get(%s) returned nil", name)
		}
	}

	if _, err := r.Get("rk4000"); err == nil {
		t.Error("expected error for unknown scheme")
	}

	names := r.Names()
	if len(names) != 5 {
		t.Errorf("expected 5 schemes, got %d", len(names))
	}
}

func BenchmarkDopri5_Step(b *testing.B) {
	s := NewDopri5()
	terms := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{y[1], -y[0]}
	})
	y := diffeq.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, _ := s.Step(terms, 0, 0.01, y, nil, nil)
		_ = res
	}
}
