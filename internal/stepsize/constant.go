package stepsize

import "github.com/san-kum/diffeq/internal/diffeq"

// Constant accepts every step at a fixed size, or follows an explicitly
// supplied sequence of step sizes when Steps is non-nil. The sequence
// cursor lives in the controller State so a replayed segment walks the
// sequence identically.
type Constant struct {
	Steps []float64
}

func NewConstant() *Constant {
	return &Constant{}
}

// NewSequence steps through the given sizes in order, repeating the last
// one once the sequence is exhausted.
func NewSequence(steps []float64) *Constant {
	return &Constant{Steps: steps}
}

func (c *Constant) Start(dt0 float64) State {
	if len(c.Steps) > 0 {
		return State{Dt: c.Steps[0], Seq: 1}
	}
	return State{Dt: dt0}
}

func (c *Constant) Ratio(errEst, y0, y1 diffeq.State) float64 {
	return 0
}

func (c *Constant) Decide(st State, dt, ratio float64, order int) (Decision, State, error) {
	next := dt
	if st.Seq < len(c.Steps) {
		next = c.Steps[st.Seq]
		st.Seq++
	}
	st.Dt = next
	return Decision{Accept: true, NextDt: next}, st, nil
}
