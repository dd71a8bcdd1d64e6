package diffeq

import "fmt"

// VectorField is the user-supplied right-hand side of an equation.
type VectorField func(t float64, y State, args Args) State

// Term is one additive component of an equation's right-hand side.
//
// A term is evaluated at a point and contracted with the increment of the
// driving path over the step. The concrete implementations form a closed
// set: ODETerm (driven by time), DiffusionTerm (driven by a Brownian path),
// ControlTerm (driven by an arbitrary control path).
type Term interface {
	// Evaluate computes the vector field at (t, y).
	Evaluate(t float64, y State, args Args) State

	// Increment returns the driving increment over [t0, t1].
	Increment(t0, t1 float64) Increment

	// Contract combines a vector-field value with a step increment into
	// the additive contribution to the state update.
	Contract(vf State, inc Increment) State
}

// Terms is a complete right-hand side: one Term per driving control.
// Contributions are evaluated independently and summed per stage; terms are
// never merged into a single function, so error estimation and adjoint
// logic can treat each driving control separately.
type Terms []Term

// ODE builds the right-hand side dy/dt = f(t, y, args).
func ODE(f VectorField) Terms {
	return Terms{&ODETerm{F: f}}
}

// SDE builds the right-hand side dy = f dt + g dW for a diagonal-noise
// stochastic equation driven by the Brownian path w.
func SDE(drift, diffusion VectorField, w Path) Terms {
	return Terms{&ODETerm{F: drift}, &DiffusionTerm{G: diffusion, W: w}}
}

// CDE builds the right-hand side dy = f(t, y, args) dx(t) driven by the
// control path x.
func CDE(f VectorField, x Path) Terms {
	return Terms{&ControlTerm{F: f, X: x}}
}

// ODETerm is the time-driven term f(t, y, args) dt.
type ODETerm struct {
	F VectorField
}

func (o *ODETerm) Evaluate(t float64, y State, args Args) State {
	return o.F(t, y, args)
}

func (o *ODETerm) Increment(t0, t1 float64) Increment {
	return Increment{t1 - t0}
}

func (o *ODETerm) Contract(vf State, inc Increment) State {
	return vf.Scale(inc[0])
}

// DiffusionTerm is the noise-driven term g(t, y, args) dW with diagonal
// noise: component i of the field multiplies component i of the Brownian
// increment. A scalar increment broadcasts over all components.
type DiffusionTerm struct {
	G VectorField
	W Path
}

func (d *DiffusionTerm) Evaluate(t float64, y State, args Args) State {
	return d.G(t, y, args)
}

func (d *DiffusionTerm) Increment(t0, t1 float64) Increment {
	return d.W.Increment(t0, t1)
}

func (d *DiffusionTerm) Contract(vf State, inc Increment) State {
	result := make(State, len(vf))
	if len(inc) == 1 {
		for i := range vf {
			result[i] = vf[i] * inc[0]
		}
		return result
	}
	for i := range vf {
		result[i] = vf[i] * inc[i]
	}
	return result
}

// ControlTerm is the control-driven term f(t, y, args) dx with a scalar
// control path.
type ControlTerm struct {
	F VectorField
	X Path
}

func (c *ControlTerm) Evaluate(t float64, y State, args Args) State {
	return c.F(t, y, args)
}

func (c *ControlTerm) Increment(t0, t1 float64) Increment {
	return c.X.Increment(t0, t1)
}

func (c *ControlTerm) Contract(vf State, inc Increment) State {
	return vf.Scale(inc[0])
}

// Evaluate runs a term's vector field guarded against user-function panics
// and shape mismatches, wrapping failures in ErrTermEvaluation.
func Evaluate(term Term, t float64, y State, args Args) (vf State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StepError{T: t, Y: y, Wrapped: fmt.Errorf("%w: vector field panicked: %v", ErrTermEvaluation, r)}
		}
	}()
	vf = term.Evaluate(t, y, args)
	if len(vf) != len(y) {
		return nil, &StepError{T: t, Y: y, Wrapped: fmt.Errorf("%w: vector field returned %d components for %d-dimensional state", ErrTermEvaluation, len(vf), len(y))}
	}
	return vf, nil
}
