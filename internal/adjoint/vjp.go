package adjoint

import (
	"math"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
)

// VJPTerm is implemented by terms whose vector field supplies an analytic
// vector-Jacobian product: cot'(df/dy) and cot'(df/dargs). Terms without
// it fall back to central finite differences.
type VJPTerm interface {
	diffeq.Term
	VJP(t float64, y diffeq.State, args diffeq.Args, cot diffeq.State) (dy diffeq.State, dargs diffeq.Args)
}

const fdEps = 1e-6

// fieldVJP contracts the cotangent with the Jacobians of one term's vector
// field, analytically when available.
func fieldVJP(term diffeq.Term, t float64, y diffeq.State, args diffeq.Args, cot diffeq.State) (diffeq.State, diffeq.Args) {
	if v, ok := term.(VJPTerm); ok {
		return v.VJP(t, y, args, cot)
	}

	dy := make(diffeq.State, len(y))
	for i := range y {
		eps := fdEps * math.Max(1, math.Abs(y[i]))
		yp := y.Clone()
		ym := y.Clone()
		yp[i] += eps
		ym[i] -= eps
		fp := term.Evaluate(t, yp, args)
		fm := term.Evaluate(t, ym, args)
		for k := range cot {
			dy[i] += cot[k] * (fp[k] - fm[k]) / (2 * eps)
		}
	}

	dargs := make(diffeq.Args, len(args))
	for j := range args {
		eps := fdEps * math.Max(1, math.Abs(args[j]))
		ap := args.Clone()
		am := args.Clone()
		ap[j] += eps
		am[j] -= eps
		fp := term.Evaluate(t, y, ap)
		fm := term.Evaluate(t, y, am)
		for k := range cot {
			dargs[j] += cot[k] * (fp[k] - fm[k]) / (2 * eps)
		}
	}

	return dy, dargs
}

// stepVJP backpropagates the cotangent a through one step of the scheme by
// central differences on the whole step map. The step is re-executed from
// a fresh scheme state; warm-start data only changes iteration counts, not
// the converged step value.
func stepVJP(scheme solver.Solver, p solve.Problem, t0, t1 float64, y0 diffeq.State, a diffeq.State) (aPrev diffeq.State, dargs diffeq.Args, err error) {
	step := func(y diffeq.State, args diffeq.Args) (diffeq.State, error) {
		st, err := scheme.Init(p.Terms, t0, y, args)
		if err != nil {
			return nil, err
		}
		res, err := scheme.Step(p.Terms, t0, t1, y, args, st)
		if err != nil {
			return nil, err
		}
		return res.Y1, nil
	}

	aPrev = make(diffeq.State, len(y0))
	for i := range y0 {
		eps := fdEps * math.Max(1, math.Abs(y0[i]))
		yp := y0.Clone()
		ym := y0.Clone()
		yp[i] += eps
		ym[i] -= eps
		fp, err := step(yp, p.Args)
		if err != nil {
			return nil, nil, err
		}
		fm, err := step(ym, p.Args)
		if err != nil {
			return nil, nil, err
		}
		for k := range a {
			aPrev[i] += a[k] * (fp[k] - fm[k]) / (2 * eps)
		}
	}

	dargs = make(diffeq.Args, len(p.Args))
	for j := range p.Args {
		eps := fdEps * math.Max(1, math.Abs(p.Args[j]))
		ap := p.Args.Clone()
		am := p.Args.Clone()
		ap[j] += eps
		am[j] -= eps
		fp, err := step(y0, ap)
		if err != nil {
			return nil, nil, err
		}
		fm, err := step(y0, am)
		if err != nil {
			return nil, nil, err
		}
		for k := range a {
			dargs[j] += a[k] * (fp[k] - fm[k]) / (2 * eps)
		}
	}

	return aPrev, dargs, nil
}
