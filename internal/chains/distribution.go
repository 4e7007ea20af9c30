package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// DistributionPoints is the quadrature resolution of the normalization.
const DistributionPoints = 4 * thermo.Points

// Distribution is the equilibrium probability density of the end-to-end
// vector, P(gamma) proportional to exp(-Delta psi(gamma)). It is
// normalized so that the radial density 4 pi gamma^2 P integrates to one
// over [0, Upper].
type Distribution struct {
	chain         thermo.Chain
	isometric     thermo.Isometric
	reference     float64
	upper         float64
	normalization float64
}

// NewDistribution integrates the unnormalized density once and keeps the
// result.
func NewDistribution(c thermo.Chain, iso thermo.Isometric, upper float64) (*Distribution, error) {
	if err := thermo.Positive("upper", upper); err != nil {
		return nil, err
	}
	reference, err := iso.HelmholtzFreeEnergy(thermo.Zero)
	if err != nil {
		return nil, err
	}
	d := &Distribution{
		chain:         c,
		isometric:     iso,
		reference:     reference,
		upper:         upper,
		normalization: 1,
	}

	var failed error
	radial := func(gamma float64) float64 {
		g, err := d.NondimensionalRadialDensity(gamma)
		if err != nil && failed == nil {
			failed = err
		}
		return g
	}
	total := numerics.Midpoint(radial, 0, upper, DistributionPoints)
	if failed != nil {
		return nil, failed
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, &thermo.ParameterError{Name: "normalization", Value: total}
	}
	d.normalization = total
	return d, nil
}

// Upper is the largest extension with nonzero probability.
func (d *Distribution) Upper() float64 { return d.upper }

// Normalization is the integral of the unnormalized radial density.
func (d *Distribution) Normalization() float64 { return d.normalization }

func (d *Distribution) NondimensionalDensity(gamma float64) (float64, error) {
	if gamma < 0 {
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	}
	if gamma >= d.upper {
		return 0, nil
	}
	psi, err := d.isometric.HelmholtzFreeEnergy(gamma)
	if err != nil {
		return 0, err
	}
	return math.Exp(d.reference-psi) / d.normalization, nil
}

// NondimensionalRadialDensity is 4 pi gamma^2 P(gamma).
func (d *Distribution) NondimensionalRadialDensity(gamma float64) (float64, error) {
	p, err := d.NondimensionalDensity(gamma)
	return 4 * math.Pi * gamma * gamma * p, err
}

// Density is P per unit volume at an end-to-end length.
func (d *Distribution) Density(endToEndLength float64) (float64, error) {
	p, err := d.NondimensionalDensity(d.chain.NondimensionalExtension(endToEndLength))
	return p / math.Pow(d.chain.ContourLength(), 3), err
}

// RadialDensity is the radial density per unit length.
func (d *Distribution) RadialDensity(endToEndLength float64) (float64, error) {
	g, err := d.NondimensionalRadialDensity(d.chain.NondimensionalExtension(endToEndLength))
	return g / d.chain.ContourLength(), err
}
