package solver

import "github.com/san-kum/diffeq/internal/diffeq"

// Leapfrog is a second-order symplectic scheme for separable systems whose
// state splits into position and velocity halves: y = [q, v] with
// dq/dt = v and dv/dt = a(q). It conserves the system's energy-like
// invariant over long horizons where non-symplectic schemes drift.
// Time-driven terms only. No embedded error estimate.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Order() int          { return 2 }
func (l *Leapfrog) ErrorEstimate() bool { return false }

func (l *Leapfrog) Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error) {
	return nil, nil
}

func (l *Leapfrog) Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error) {
	n := len(y0)
	half := n / 2
	dt := t1 - t0
	halfDt := 0.5 * dt
	incs := increments(terms, t0, t1)

	k, err := contribution(terms, t0, y0, args, incs)
	if err != nil {
		return Result{}, err
	}
	// per-unit-time slope; contributions carry the step increment
	f0 := k.Scale(1 / dt)

	// half-kick the velocity component, then drift positions
	mid := make(diffeq.State, n)
	for i := 0; i < half; i++ {
		mid[half+i] = y0[half+i] + f0[half+i]*halfDt
	}
	for i := 0; i < half; i++ {
		mid[i] = y0[i] + mid[half+i]*dt
	}

	k2, err := contribution(terms, t1, mid, args, incs)
	if err != nil {
		return Result{}, err
	}
	f1 := k2.Scale(1 / dt)

	y1 := make(diffeq.State, n)
	for i := 0; i < half; i++ {
		y1[i] = mid[i]
		y1[half+i] = mid[half+i] + f1[half+i]*halfDt
	}

	return Result{
		Y1: y1,
		F0: f0,
		F1: f1,
	}, nil
}
