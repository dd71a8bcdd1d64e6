package solve

import (
	"fmt"
	"sort"

	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/interp"
)

// Status is the termination state of a solve.
type Status int

const (
	StatusCompleted Status = iota
	StatusEventTerminated
	StatusMaxSteps
	StatusDiverged
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusEventTerminated:
		return "event-terminated"
	case StatusMaxSteps:
		return "max-steps-exceeded"
	case StatusDiverged:
		return "diverged"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Stats are the run counters of one solve. Steps counts every attempt,
// accepted and rejected; accepted steps are Steps - Rejected.
type Stats struct {
	Steps       int
	Rejected    int
	Evaluations int
}

// StepRecord is the immutable outcome of one accepted step. Records are
// strictly time-ordered and non-overlapping; a rejected attempt produces
// none.
type StepRecord struct {
	T0, T1 float64
	Y0, Y1 diffeq.State
	ErrEst diffeq.State
	Interp *interp.Hermite
}

// Solution is the output of a solve: saved points, the dense-output log,
// run statistics, and the termination status. On a failure status Err
// carries the cause and the trajectory is the partial result up to the
// last accepted step.
type Solution struct {
	Ts []float64
	Ys []diffeq.State

	Records []StepRecord

	Stats  Stats
	Status Status
	Err    error

	// EventT is the event crossing time, valid when Status is
	// StatusEventTerminated.
	EventT float64
}

// Final returns the last saved time and state.
func (s *Solution) Final() (float64, diffeq.State) {
	if len(s.Ts) == 0 {
		return 0, nil
	}
	return s.Ts[len(s.Ts)-1], s.Ys[len(s.Ys)-1]
}

// Interpolate reconstructs the solution at an arbitrary time inside the
// integrated span by locating the containing step record and evaluating
// its local interpolant. Read-only: repeated queries at the same time
// return identical results.
func (s *Solution) Interpolate(t float64) (diffeq.State, error) {
	if len(s.Records) == 0 {
		return nil, fmt.Errorf("diffeq: empty solution")
	}

	first := s.Records[0]
	last := s.Records[len(s.Records)-1]
	if t < first.T0 || t > last.T1 {
		return nil, fmt.Errorf("diffeq: time %g outside integrated span [%g, %g]", t, first.T0, last.T1)
	}

	// first record whose right endpoint reaches t
	i := sort.Search(len(s.Records), func(i int) bool {
		return s.Records[i].T1 >= t
	})
	rec := s.Records[i]

	if t == rec.T1 {
		return rec.Y1.Clone(), nil
	}
	if t == rec.T0 {
		return rec.Y0.Clone(), nil
	}
	return rec.Interp.Evaluate(t), nil
}
