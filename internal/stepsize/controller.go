package stepsize

import "github.com/san-kum/diffeq/internal/diffeq"

// Decision is the controller's verdict on one step attempt.
type Decision struct {
	Accept bool

	// NextDt is the size of the next attempt: the following step when
	// accepted, the retry of this step when rejected.
	NextDt float64
}

// State is the controller's running memory, persisted across a whole solve
// and passed by value so a snapshot taken before a step attempt restores it
// exactly.
type State struct {
	Dt        float64
	PrevRatio float64

	// Seq is the cursor into an externally supplied step-size sequence.
	Seq int
}

// Controller accepts or rejects step attempts and proposes step sizes.
type Controller interface {
	// Start returns the initial controller state for a solve beginning
	// with step size dt0.
	Start(dt0 float64) State

	// Ratio computes the normalized error ratio of an attempted step:
	// accept iff ratio <= 1. Fixed-step controllers ignore the estimate
	// and return 0.
	Ratio(errEst, y0, y1 diffeq.State) float64

	// Decide inspects the error ratio of a step attempted with size dt
	// by a scheme of the given order, and returns the verdict plus the
	// updated controller state.
	Decide(st State, dt, ratio float64, order int) (Decision, State, error)
}
