package diffeq

// Path supplies the driving increment of a step: a Brownian increment for
// SDEs or a control-path delta for CDEs.
//
// Implementations must be consistent within one solve: the same queried
// interval always yields the same increment. The backward-resolve adjoint
// relies on this to reconstruct the driving noise.
type Path interface {
	Increment(t0, t1 float64) Increment
}

// PathFunc adapts a pointwise path x(t) into a Path whose increment over
// [t0, t1] is x(t1) - x(t0).
type PathFunc func(t float64) float64

func (f PathFunc) Increment(t0, t1 float64) Increment {
	return Increment{f(t1) - f(t0)}
}
