package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solver"
)

func TestPowerSpectrumPeak(t *testing.T) {
	// 4 Hz sine sampled at 128 Hz for 1 second.
	n := 128
	dt := 1.0 / 128.0
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) * dt)
	}

	ps := PowerSpectrum(data)
	maxIdx := 0
	for i := range ps {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}

	if maxIdx != 4 {
		t.Errorf("expected spectral peak at bin 4, got %d", maxIdx)
	}

	freq := DominantFrequency(data, dt)
	if math.Abs(freq-4.0) > 1e-9 {
		t.Errorf("expected dominant frequency 4 Hz, got %g", freq)
	}
}

func TestPowerSpectrumShort(t *testing.T) {
	if ps := PowerSpectrum([]float64{1}); ps != nil {
		t.Errorf("expected nil for single sample, got %v", ps)
	}
}

func TestMaxLyapunovDecay(t *testing.T) {
	terms := diffeq.ODE(func(tt float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-y[0]}
	})

	lambda, err := MaxLyapunov(context.Background(),
		func() solver.Solver { return solver.NewDopri5() },
		terms, diffeq.State{1}, nil, 0.01, 1.0, 5)
	if err != nil {
		t.Fatalf("lyapunov failed: %v", err)
	}

	// Perturbations of dy/dt = -y contract at rate 1.
	if math.Abs(lambda-(-1.0)) > 0.05 {
		t.Errorf("expected exponent near -1, got %g", lambda)
	}
}

func TestMaxLyapunovOscillator(t *testing.T) {
	terms := diffeq.ODE(func(tt float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{y[1], -y[0]}
	})

	lambda, err := MaxLyapunov(context.Background(),
		func() solver.Solver { return solver.NewDopri5() },
		terms, diffeq.State{1, 0}, nil, 0.01, 1.0, 5)
	if err != nil {
		t.Fatalf("lyapunov failed: %v", err)
	}

	// Harmonic motion neither stretches nor contracts on average.
	if math.Abs(lambda) > 0.05 {
		t.Errorf("expected exponent near 0, got %g", lambda)
	}
}
