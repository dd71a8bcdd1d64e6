// Package registry resolves named models, schemes, controllers, and
// adjoint strategies at configuration time.
package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/diffeq/internal/adjoint"
	"github.com/san-kum/diffeq/internal/models"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
)

type Registry struct {
	models   map[string]func() models.Model
	schemes  *solver.Registry
	adjoints map[string]func() adjoint.Strategy
}

func New() *Registry {
	r := &Registry{
		models:   make(map[string]func() models.Model),
		schemes:  solver.NewRegistry(),
		adjoints: make(map[string]func() adjoint.Strategy),
	}

	r.models["decay"] = func() models.Model { return models.NewDecay() }
	r.models["oscillator"] = func() models.Model { return models.NewOscillator() }
	r.models["vanderpol"] = func() models.Model { return models.NewVanDerPol() }
	r.models["gbm"] = func() models.Model { return models.NewGBM() }
	r.models["sinecde"] = func() models.Model { return models.NewSineCDE() }

	r.adjoints["direct"] = func() adjoint.Strategy { return adjoint.NewDirect() }
	r.adjoints["checkpoint"] = func() adjoint.Strategy { return adjoint.NewCheckpoint() }
	r.adjoints["backsolve"] = func() adjoint.Strategy { return adjoint.NewBacksolve() }

	return r
}

func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetScheme(name string) (solver.Solver, error) {
	return r.schemes.Get(name)
}

func (r *Registry) GetAdjoint(name string) (adjoint.Strategy, error) {
	fn, ok := r.adjoints[name]
	if !ok {
		return nil, fmt.Errorf("unknown adjoint strategy: %s", name)
	}
	return fn(), nil
}

// GetController builds a step controller from configuration values: an
// adaptive PID controller when adaptive is set, otherwise constant.
func (r *Registry) GetController(adaptive bool, atol, rtol float64) stepsize.Controller {
	if adaptive {
		return stepsize.NewPID(atol, rtol)
	}
	return stepsize.NewConstant()
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSchemes() []string {
	return r.schemes.Names()
}

func (r *Registry) ListAdjoints() []string {
	names := make([]string, 0, len(r.adjoints))
	for name := range r.adjoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
