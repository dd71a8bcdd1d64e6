package solver

import "github.com/san-kum/diffeq/internal/diffeq"

// Euler is the explicit first-order scheme. For SDE terms it coincides with
// Euler-Maruyama. No embedded error estimate.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Order() int          { return 1 }
func (e *Euler) ErrorEstimate() bool { return false }

func (e *Euler) Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error) {
	return nil, nil
}

func (e *Euler) Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error) {
	incs := increments(terms, t0, t1)
	k1, err := contribution(terms, t0, y0, args, incs)
	if err != nil {
		return Result{}, err
	}

	y1 := y0.Add(k1)

	h := t1 - t0
	return Result{
		Y1: y1,
		F0: k1.Scale(1 / h),
		F1: k1.Scale(1 / h),
	}, nil
}
