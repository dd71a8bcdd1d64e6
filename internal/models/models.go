// Package models provides example equations driving the CLI and tests.
package models

import (
	"math"

	"github.com/san-kum/diffeq/internal/brownian"
	"github.com/san-kum/diffeq/internal/diffeq"
)

// Model bundles an equation with its default initial condition and
// parameters.
type Model interface {
	Name() string
	Terms() diffeq.Terms
	InitState() diffeq.State
	Args() diffeq.Args
}

// Decay is dy/dt = -rate*y, the linear test equation.
type Decay struct {
	Y0 float64
}

func NewDecay() *Decay {
	return &Decay{Y0: 1.0}
}

func (d *Decay) Name() string { return "decay" }

func (d *Decay) Terms() diffeq.Terms {
	return diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-args[0] * y[0]}
	})
}

func (d *Decay) InitState() diffeq.State { return diffeq.State{d.Y0} }
func (d *Decay) Args() diffeq.Args      { return diffeq.Args{1.0} }

// Oscillator is the harmonic oscillator q'' = -omega^2 q as a first-order
// system [q, v].
type Oscillator struct {
	Q0, V0 float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{Q0: 1.0}
}

func (o *Oscillator) Name() string { return "oscillator" }

func (o *Oscillator) Terms() diffeq.Terms {
	return diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		omega := args[0]
		return diffeq.State{y[1], -omega * omega * y[0]}
	})
}

func (o *Oscillator) InitState() diffeq.State { return diffeq.State{o.Q0, o.V0} }
func (o *Oscillator) Args() diffeq.Args      { return diffeq.Args{1.0} }

// VanDerPol is the Van der Pol oscillator with damping parameter mu; stiff
// for large mu.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1.0}
}

func (v *VanDerPol) Name() string { return "vanderpol" }

func (v *VanDerPol) Terms() diffeq.Terms {
	return diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		mu := args[0]
		return diffeq.State{y[1], mu*(1-y[0]*y[0])*y[1] - y[0]}
	})
}

func (v *VanDerPol) InitState() diffeq.State { return diffeq.State{2, 0} }
func (v *VanDerPol) Args() diffeq.Args      { return diffeq.Args{v.Mu} }

// GBM is geometric Brownian motion dy = mu*y dt + sigma*y dW.
type GBM struct {
	Mu    float64
	Sigma float64
	Seed  int64
}

func NewGBM() *GBM {
	return &GBM{Mu: 0.05, Sigma: 0.2, Seed: 1}
}

func (g *GBM) Name() string { return "gbm" }

func (g *GBM) Terms() diffeq.Terms {
	w := brownian.New(g.Seed, 1e-4)
	return diffeq.SDE(
		func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
			return diffeq.State{args[0] * y[0]}
		},
		func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
			return diffeq.State{args[1] * y[0]}
		},
		w,
	)
}

func (g *GBM) InitState() diffeq.State { return diffeq.State{1} }
func (g *GBM) Args() diffeq.Args      { return diffeq.Args{g.Mu, g.Sigma} }

// SineCDE is the controlled equation dy = -y dx with control path
// x(t) = sin(omega*t).
type SineCDE struct {
	Omega float64
}

func NewSineCDE() *SineCDE {
	return &SineCDE{Omega: 2 * math.Pi}
}

func (s *SineCDE) Name() string { return "sinecde" }

func (s *SineCDE) Terms() diffeq.Terms {
	omega := s.Omega
	x := diffeq.PathFunc(func(t float64) float64 { return math.Sin(omega * t) })
	return diffeq.CDE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
		return diffeq.State{-y[0]}
	}, x)
}

func (s *SineCDE) InitState() diffeq.State { return diffeq.State{1} }
func (s *SineCDE) Args() diffeq.Args      { return nil }
