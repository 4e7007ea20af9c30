package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/thermo"
)

type Registry struct {
	models      map[string]func(thermo.Chain, chains.Parameters) (chains.Model, error)
	observables map[string]Observable
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(thermo.Chain, chains.Parameters) (chains.Model, error)),
		observables: make(map[string]Observable),
	}

	for _, kind := range chains.Kinds() {
		r.models[string(kind)] = func(c thermo.Chain, p chains.Parameters) (chains.Model, error) {
			return chains.New(kind, c, p)
		}
	}
	for _, o := range defaultObservables() {
		r.observables[o.Name] = o
	}

	return r
}

func (r *Registry) GetModel(name string, c thermo.Chain, p chains.Parameters) (chains.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", thermo.ErrUnknownModel, name)
	}
	return fn(c, p)
}

func (r *Registry) GetObservable(name string) (Observable, error) {
	o, ok := r.observables[name]
	if !ok {
		return Observable{}, fmt.Errorf("%w: observable %q", thermo.ErrInvalidParameter, name)
	}
	return o, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListObservables returns the observables of one ensemble, or every
// observable when e is empty.
func (r *Registry) ListObservables(e chains.Ensemble) []string {
	names := make([]string, 0, len(r.observables))
	for name, o := range r.observables {
		if e == "" || o.Ensemble == e {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
