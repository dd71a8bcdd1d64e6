package diffeq

import "math"

// State is the numeric state vector y(t) of an equation.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// AXPY returns s + factor*other, allocating the result.
func (s State) AXPY(factor float64, other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + factor*other[i]
	}
	return result
}

// Equal reports exact elementwise equality.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Args holds the free parameters of an equation, differentiable alongside
// the initial state.
type Args []float64

func (a Args) Clone() Args {
	c := make(Args, len(a))
	copy(c, a)
	return c
}

// Increment is the driving increment of one step: {dt} for an ODE term,
// a Brownian increment for a diffusion term, a control delta for a CDE term.
type Increment []float64
