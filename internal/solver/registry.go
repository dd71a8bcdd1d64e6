package solver

import (
	"fmt"
	"sort"
)

// Registry is the closed map of scheme identifiers to stepping schemes,
// resolved at configuration time. The step loop never dispatches on scheme
// names.
type Registry struct {
	schemes map[string]func() Solver
}

func NewRegistry() *Registry {
	r := &Registry{schemes: make(map[string]func() Solver)}

	r.schemes["euler"] = func() Solver { return NewEuler() }
	r.schemes["heun"] = func() Solver { return NewHeun() }
	r.schemes["dopri5"] = func() Solver { return NewDopri5() }
	r.schemes["ieuler"] = func() Solver { return NewImplicitEuler() }
	r.schemes["leapfrog"] = func() Solver { return NewLeapfrog() }

	return r
}

func (r *Registry) Get(name string) (Solver, error) {
	fn, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheme: %s", name)
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
