package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// langevinIsotensional is the rigid-link response gamma = L(eta) with
// g = -N ln(sinh(eta)/eta).
type langevinIsotensional struct{ n float64 }

func (l langevinIsotensional) EndToEndLengthPerLink(eta float64) (float64, error) {
	return numerics.Langevin(eta), nil
}

func (l langevinIsotensional) GibbsFreeEnergy(eta float64) (float64, error) {
	return -l.n * numerics.LogSinhc(eta), nil
}

// langevinIsometric inverts the Langevin function directly.
type langevinIsometric struct{ n float64 }

func (l langevinIsometric) MaxExtension() float64 { return 1 }

func (l langevinIsometric) Force(gamma float64) (float64, error) {
	if gamma < 0 {
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	}
	return numerics.InverseLangevin(gamma)
}

func (l langevinIsometric) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	eta, err := l.Force(gamma)
	if err != nil {
		return 0, err
	}
	return -l.n*numerics.LogSinhc(eta) + l.n*eta*gamma, nil
}

// gaussianIsotensional is the small-force limit gamma = eta/3.
type gaussianIsotensional struct{ n float64 }

func (g gaussianIsotensional) EndToEndLengthPerLink(eta float64) (float64, error) {
	return eta / 3, nil
}

func (g gaussianIsotensional) GibbsFreeEnergy(eta float64) (float64, error) {
	return -g.n * eta * eta / 6, nil
}

type gaussianIsometric struct{ n float64 }

func (g gaussianIsometric) Force(gamma float64) (float64, error) {
	return 3 * gamma, nil
}

func (g gaussianIsometric) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	return 1.5 * g.n * gamma * gamma, nil
}

// Ideal is the Langevin chain of rigid, freely rotating links in the
// Legendre (large N) approximation. The asymptotic variants are Gaussian.
type Ideal struct {
	base
}

func NewIdeal(c thermo.Chain) (*Ideal, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.N()
	m := &Ideal{base: newBase(KindIdeal, c, Parameters{})}
	m.addIsotensional(Exact, langevinIsotensional{n: n})
	m.addIsotensional(Asymptotic, gaussianIsotensional{n: n})
	m.addIsometric(Legendre, langevinIsometric{n: n})
	m.addIsometric(Asymptotic, gaussianIsometric{n: n})
	if err := m.distribute(1); err != nil {
		return nil, err
	}
	return m, nil
}

// GaussianDensity is the normalized Gaussian end-to-end density, the
// large-N limit of every freely jointed model.
func GaussianDensity(n, gamma float64) float64 {
	return math.Pow(1.5*n/math.Pi, 1.5) * math.Exp(-1.5*n*gamma*gamma)
}
