package stepsize

import (
	"math"

	"github.com/san-kum/diffeq/internal/diffeq"
)

// PID is the adaptive error-feedback controller. The local error estimate
// is normalized against atol + rtol*|y| into a ratio r; the step is
// accepted iff r <= 1 and the next step size follows
//
//	dt' = dt * clamp(safety * r^(-kp/order) * (rPrev/r)^(ki/order), minFactor, maxFactor)
//
// with KI = 0 reducing to the classic proportional controller. All tuning
// constants are configuration, not hardcoded policy.
type PID struct {
	Atol float64
	Rtol float64

	Safety    float64
	MinFactor float64
	MaxFactor float64

	// KP and KI weight the current and previous error ratios in the
	// step-size update.
	KP float64
	KI float64

	// MinDt is the floor below which the controller gives up.
	MinDt float64
}

func NewPID(atol, rtol float64) *PID {
	return &PID{
		Atol:      atol,
		Rtol:      rtol,
		Safety:    0.9,
		MinFactor: 0.2,
		MaxFactor: 10.0,
		KP:        1.0,
		KI:        0.0,
		MinDt:     1e-12,
	}
}

func (c *PID) Start(dt0 float64) State {
	return State{Dt: dt0}
}

// Ratio is the RMS of the componentwise error over the mixed tolerance.
func (c *PID) Ratio(errEst, y0, y1 diffeq.State) float64 {
	if len(errEst) == 0 {
		return 0
	}
	sum := 0.0
	for i := range errEst {
		scale := c.Atol + c.Rtol*math.Max(math.Abs(y0[i]), math.Abs(y1[i]))
		e := errEst[i] / scale
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(errEst)))
}

func (c *PID) Decide(st State, dt, ratio float64, order int) (Decision, State, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		// overflowed estimate: treat as a hard rejection
		next := dt * c.MinFactor
		if next < c.MinDt {
			return Decision{}, st, &diffeq.StepError{Dt: next, Wrapped: diffeq.ErrMinStepSizeReached}
		}
		st.Dt = next
		return Decision{Accept: false, NextDt: next}, st, nil
	}

	factor := c.MaxFactor
	if ratio > 0 {
		exp := 1.0 / float64(order)
		factor = c.Safety * math.Pow(ratio, -c.KP*exp)
		if c.KI != 0 && st.PrevRatio > 0 {
			factor *= math.Pow(st.PrevRatio/ratio, c.KI*exp)
		}
		factor = math.Min(math.Max(factor, c.MinFactor), c.MaxFactor)
	}

	next := dt * factor

	if ratio > 1 {
		if next < c.MinDt {
			return Decision{}, st, &diffeq.StepError{Dt: next, Wrapped: diffeq.ErrMinStepSizeReached}
		}
		st.Dt = next
		return Decision{Accept: false, NextDt: next}, st, nil
	}

	st.Dt = next
	st.PrevRatio = ratio
	return Decision{Accept: true, NextDt: next}, st, nil
}
