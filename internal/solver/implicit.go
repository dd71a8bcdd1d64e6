package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/diffeq/internal/diffeq"
)

// ImplicitEuler is the first-order backward Euler scheme. Each step solves
// the root-finding problem y1 = y0 + C(t1, y1) by Newton iteration, with
// the linear solves delegated to gonum. The previous step's increment warms
// up the next step's initial guess. No embedded error estimate.
type ImplicitEuler struct {
	MaxIters int
	Tol      float64

	// JacEps is the finite-difference perturbation used to form the
	// Newton Jacobian.
	JacEps float64
}

func NewImplicitEuler() *ImplicitEuler {
	return &ImplicitEuler{
		MaxIters: 10,
		Tol:      1e-10,
		JacEps:   1e-8,
	}
}

func (s *ImplicitEuler) Order() int          { return 1 }
func (s *ImplicitEuler) ErrorEstimate() bool { return false }

// implicitState carries the warm-start increment between steps.
type implicitState struct {
	prevDelta diffeq.State
}

func (s *ImplicitEuler) Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error) {
	return implicitState{}, nil
}

func (s *ImplicitEuler) Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error) {
	n := len(y0)
	dt := t1 - t0
	incs := increments(terms, t0, t1)

	warm := st.(implicitState)
	y1 := y0.Clone()
	if warm.prevDelta != nil && len(warm.prevDelta) == n {
		y1 = y0.Add(warm.prevDelta)
	}

	residual := func(y diffeq.State) (diffeq.State, error) {
		c, err := contribution(terms, t1, y, args, incs)
		if err != nil {
			return nil, err
		}
		g := make(diffeq.State, n)
		for i := 0; i < n; i++ {
			g[i] = y[i] - y0[i] - c[i]
		}
		return g, nil
	}

	converged := false
	for iter := 0; iter < s.MaxIters; iter++ {
		g, err := residual(y1)
		if err != nil {
			return Result{}, err
		}

		if g.Norm() <= s.Tol*(1+y1.Norm()) {
			converged = true
			break
		}

		jac, err := s.jacobian(residual, y1, g)
		if err != nil {
			return Result{}, err
		}

		var lu mat.LU
		lu.Factorize(jac)
		delta := mat.NewVecDense(n, nil)
		if err := lu.SolveVecTo(delta, false, mat.NewVecDense(n, g)); err != nil {
			return Result{}, &diffeq.StepError{T: t0, Dt: dt, Y: y0, Wrapped: fmt.Errorf("%w: singular Newton system: %v", diffeq.ErrImplicitStepDivergence, err)}
		}

		for i := 0; i < n; i++ {
			y1[i] -= delta.AtVec(i)
		}
		if !y1.IsValid() {
			return Result{}, &diffeq.StepError{T: t0, Dt: dt, Y: y0, Wrapped: diffeq.ErrImplicitStepDivergence}
		}
	}

	if !converged {
		g, err := residual(y1)
		if err != nil {
			return Result{}, err
		}
		if g.Norm() > s.Tol*(1+y1.Norm()) {
			return Result{}, &diffeq.StepError{T: t0, Dt: dt, Y: y0, Wrapped: diffeq.ErrImplicitStepDivergence}
		}
	}

	k0, err := contribution(terms, t0, y0, args, incs)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Y1:    y1,
		F0:    k0.Scale(1 / dt),
		F1:    y1.Sub(y0).Scale(1 / dt),
		State: implicitState{prevDelta: y1.Sub(y0)},
	}, nil
}

// jacobian forms dG/dy by forward differences around y with residual g.
func (s *ImplicitEuler) jacobian(residual func(diffeq.State) (diffeq.State, error), y, g diffeq.State) (*mat.Dense, error) {
	n := len(y)
	jac := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		eps := s.JacEps * math.Max(1, math.Abs(y[j]))
		yp := y.Clone()
		yp[j] += eps
		gp, err := residual(yp)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			jac.Set(i, j, (gp[i]-g[i])/eps)
		}
	}
	return jac, nil
}
