package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// trap wraps a fallible relation for the Newton solver. The first error is
// kept and NaN is returned so the solve stops.
type trap struct{ err error }

func (t *trap) wrap(fn func(float64) (float64, error)) func(float64) float64 {
	return func(x float64) float64 {
		y, err := fn(x)
		if err != nil {
			if t.err == nil {
				t.err = err
			}
			return math.NaN()
		}
		return y
	}
}

// slope is a one-sided difference with a step relative to x. It looks
// backwards away from zero so iterates close to an upper bound stay inside.
func slope(fn func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		h := 1e-6 * math.Max(math.Abs(x), 1e-3)
		if x > 2*h {
			return (fn(x) - fn(x-h)) / h
		}
		return (fn(x+h) - fn(x)) / h
	}
}

// legendreIsometric obtains the isometric ensemble from an isotensional
// relation: eta solves gamma(eta) = gamma and psi = g(eta) + N eta gamma.
type legendreIsometric struct {
	n      float64
	source thermo.Isotensional
	guess  func(gamma float64) float64
	solver *numerics.Newton
	// limit is the supremum of gamma; zero means unbounded.
	limit float64
}

func (l legendreIsometric) MaxExtension() float64 {
	if l.limit == 0 {
		return math.Inf(1)
	}
	return l.limit
}

func (l legendreIsometric) Force(gamma float64) (float64, error) {
	switch {
	case gamma < 0:
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	case gamma == 0:
		return 0, nil
	case l.limit > 0 && gamma >= l.limit:
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: l.limit}
	}
	var t trap
	fn := t.wrap(l.source.EndToEndLengthPerLink)
	eta, err := l.solver.Invert(fn, slope(fn), gamma, l.guess(gamma))
	if t.err != nil {
		return 0, t.err
	}
	return eta, err
}

func (l legendreIsometric) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	eta, err := l.Force(gamma)
	if err != nil {
		return 0, err
	}
	g, err := l.source.GibbsFreeEnergy(eta)
	if err != nil {
		return 0, err
	}
	return g + l.n*eta*gamma, nil
}

// legendreIsotensional obtains the isotensional ensemble from an isometric
// relation: gamma solves eta(gamma) = eta and g = psi(gamma) - N eta gamma.
type legendreIsotensional struct {
	n      float64
	source thermo.Isometric
	guess  func(eta float64) float64
	solver *numerics.Newton
}

func (l legendreIsotensional) EndToEndLengthPerLink(eta float64) (float64, error) {
	if eta == 0 {
		return 0, nil
	}
	if eta < 0 {
		gamma, err := l.EndToEndLengthPerLink(-eta)
		return -gamma, err
	}
	var t trap
	fn := t.wrap(l.source.Force)
	gamma, err := l.solver.Invert(fn, slope(fn), eta, l.guess(eta))
	if t.err != nil {
		return 0, t.err
	}
	return gamma, err
}

func (l legendreIsotensional) GibbsFreeEnergy(eta float64) (float64, error) {
	gamma, err := l.EndToEndLengthPerLink(math.Abs(eta))
	if err != nil {
		return 0, err
	}
	psi, err := l.source.HelmholtzFreeEnergy(gamma)
	if err != nil {
		return 0, err
	}
	return psi - l.n*math.Abs(eta)*gamma, nil
}
