// Package interp provides the per-step dense-output interpolants.
package interp

import "github.com/san-kum/diffeq/internal/diffeq"

// Hermite is the cubic Hermite interpolant over one accepted step, built
// from the state endpoints and the per-unit-time slopes the scheme reports.
// With nil slopes it degrades to linear interpolation. Valid only on
// [T0, T1]; immutable once built.
type Hermite struct {
	T0, T1 float64
	Y0, Y1 diffeq.State
	F0, F1 diffeq.State
}

func NewHermite(t0, t1 float64, y0, y1, f0, f1 diffeq.State) *Hermite {
	return &Hermite{T0: t0, T1: t1, Y0: y0, Y1: y1, F0: f0, F1: f1}
}

// Evaluate reconstructs the state at t in [T0, T1]. Endpoint queries return
// the recorded endpoint values exactly.
func (h *Hermite) Evaluate(t float64) diffeq.State {
	if t <= h.T0 {
		return h.Y0.Clone()
	}
	if t >= h.T1 {
		return h.Y1.Clone()
	}

	dt := h.T1 - h.T0
	s := (t - h.T0) / dt

	if h.F0 == nil || h.F1 == nil {
		result := make(diffeq.State, len(h.Y0))
		for i := range result {
			result[i] = h.Y0[i] + s*(h.Y1[i]-h.Y0[i])
		}
		return result
	}

	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	result := make(diffeq.State, len(h.Y0))
	for i := range result {
		result[i] = h00*h.Y0[i] + h10*dt*h.F0[i] + h01*h.Y1[i] + h11*dt*h.F1[i]
	}
	return result
}

// Derivative evaluates the interpolant's time derivative at t.
func (h *Hermite) Derivative(t float64) diffeq.State {
	dt := h.T1 - h.T0
	s := (t - h.T0) / dt
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}

	if h.F0 == nil || h.F1 == nil {
		result := make(diffeq.State, len(h.Y0))
		for i := range result {
			result[i] = (h.Y1[i] - h.Y0[i]) / dt
		}
		return result
	}

	s2 := s * s
	d00 := (6*s2 - 6*s) / dt
	d10 := 3*s2 - 4*s + 1
	d01 := (-6*s2 + 6*s) / dt
	d11 := 3*s2 - 2*s

	result := make(diffeq.State, len(h.Y0))
	for i := range result {
		result[i] = d00*h.Y0[i] + d10*h.F0[i] + d01*h.Y1[i] + d11*h.F1[i]
	}
	return result
}
