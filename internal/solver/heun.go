package solver

import "github.com/san-kum/diffeq/internal/diffeq"

// Heun is the explicit trapezoidal second-order scheme with an embedded
// first-order (Euler) error estimate. For SDE terms it is the
// stochastic Heun method.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Order() int          { return 2 }
func (h *Heun) ErrorEstimate() bool { return true }

func (h *Heun) Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error) {
	return nil, nil
}

func (h *Heun) Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error) {
	incs := increments(terms, t0, t1)

	k1, err := contribution(terms, t0, y0, args, incs)
	if err != nil {
		return Result{}, err
	}

	k2, err := contribution(terms, t1, y0.Add(k1), args, incs)
	if err != nil {
		return Result{}, err
	}

	n := len(y0)
	y1 := make(diffeq.State, n)
	errEst := make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y1[i] = y0[i] + 0.5*(k1[i]+k2[i])
		errEst[i] = 0.5 * (k2[i] - k1[i])
	}

	dt := t1 - t0
	return Result{
		Y1:     y1,
		ErrEst: errEst,
		F0:     k1.Scale(1 / dt),
		F1:     k2.Scale(1 / dt),
	}, nil
}
