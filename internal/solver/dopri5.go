package solver

import "github.com/san-kum/diffeq/internal/diffeq"

// Dormand-Prince 5(4) coefficients
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// Dopri5 is the Dormand-Prince explicit 5(4) Runge-Kutta pair: fifth-order
// update with an embedded fourth-order error estimate.
type Dopri5 struct{}

func NewDopri5() *Dopri5 {
	return &Dopri5{}
}

func (d *Dopri5) Order() int          { return 5 }
func (d *Dopri5) ErrorEstimate() bool { return true }

func (d *Dopri5) Init(terms diffeq.Terms, t0 float64, y0 diffeq.State, args diffeq.Args) (StepState, error) {
	return nil, nil
}

func (d *Dopri5) Step(terms diffeq.Terms, t0, t1 float64, y0 diffeq.State, args diffeq.Args, st StepState) (Result, error) {
	n := len(y0)
	dt := t1 - t0
	incs := increments(terms, t0, t1)

	k1, err := contribution(terms, t0, y0, args, incs)
	if err != nil {
		return Result{}, err
	}

	y := make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y[i] = y0[i] + b21*k1[i]
	}
	k2, err := contribution(terms, t0+a2*dt, y, args, incs)
	if err != nil {
		return Result{}, err
	}

	y = make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y[i] = y0[i] + b31*k1[i] + b32*k2[i]
	}
	k3, err := contribution(terms, t0+a3*dt, y, args, incs)
	if err != nil {
		return Result{}, err
	}

	y = make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y[i] = y0[i] + b41*k1[i] + b42*k2[i] + b43*k3[i]
	}
	k4, err := contribution(terms, t0+a4*dt, y, args, incs)
	if err != nil {
		return Result{}, err
	}

	y = make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y[i] = y0[i] + b51*k1[i] + b52*k2[i] + b53*k3[i] + b54*k4[i]
	}
	k5, err := contribution(terms, t0+a5*dt, y, args, incs)
	if err != nil {
		return Result{}, err
	}

	y = make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y[i] = y0[i] + b61*k1[i] + b62*k2[i] + b63*k3[i] + b64*k4[i] + b65*k5[i]
	}
	k6, err := contribution(terms, t1, y, args, incs)
	if err != nil {
		return Result{}, err
	}

	y1 := make(diffeq.State, n)
	for i := 0; i < n; i++ {
		y1[i] = y0[i] + c1*k1[i] + c3*k3[i] + c4*k4[i] + c5*k5[i] + c6*k6[i]
	}

	k7, err := contribution(terms, t1, y1, args, incs)
	if err != nil {
		return Result{}, err
	}

	errEst := make(diffeq.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i]
	}

	return Result{
		Y1:     y1,
		ErrEst: errEst,
		F0:     k1.Scale(1 / dt),
		F1:     k7.Scale(1 / dt),
	}, nil
}
