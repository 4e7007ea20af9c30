package analysis

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/polysim/internal/thermo"
)

// Consistency compares a relation against the derivative of the free
// energy it should follow from.
type Consistency struct {
	Argument float64
	Expected float64
	Measured float64
	Residual float64
}

// derivative differentiates f numerically, stepping one-sided near zero
// so f is never evaluated at a negative argument. The first error f
// reports is returned.
func derivative(f func(float64) (float64, error), x float64) (float64, error) {
	var first error
	g := func(y float64) float64 {
		v, err := f(y)
		if err != nil {
			if first == nil {
				first = err
			}
			return math.NaN()
		}
		return v
	}

	h := 1e-5 * math.Max(math.Abs(x), 1e-2)
	settings := &fd.Settings{Formula: fd.Central, Step: h}
	if x < 2*h {
		settings.Formula = fd.Forward
	}
	d := fd.Derivative(g, x, settings)
	return d, first
}

// CheckIsotensional verifies gamma = -(1/N) dg/deta at eta.
func CheckIsotensional(v thermo.IsotensionalView, eta float64) (Consistency, error) {
	gamma, err := v.NondimensionalEndToEndLengthPerLink(eta)
	if err != nil {
		return Consistency{}, err
	}
	slope, err := derivative(v.NondimensionalRelativeGibbsFreeEnergyPerLink, eta)
	if err != nil {
		return Consistency{}, err
	}
	return Consistency{
		Argument: eta,
		Expected: gamma,
		Measured: -slope,
		Residual: RelativeDifference(gamma, -slope),
	}, nil
}

// CheckIsometric verifies eta = (1/N) dpsi/dgamma at gamma.
func CheckIsometric(v thermo.IsometricView, gamma float64) (Consistency, error) {
	eta, err := v.NondimensionalForce(gamma)
	if err != nil {
		return Consistency{}, err
	}
	slope, err := derivative(v.NondimensionalRelativeHelmholtzFreeEnergyPerLink, gamma)
	if err != nil {
		return Consistency{}, err
	}
	return Consistency{
		Argument: gamma,
		Expected: eta,
		Measured: slope,
		Residual: RelativeDifference(eta, slope),
	}, nil
}

// CheckDuality maps eta to an extension in the isotensional ensemble
// and back to a force in the isometric one. The two only agree in the
// thermodynamic limit, so the residual measures ensemble inequivalence.
func CheckDuality(tension thermo.IsotensionalView, metric thermo.IsometricView, eta float64) (Consistency, error) {
	gamma, err := tension.NondimensionalEndToEndLengthPerLink(eta)
	if err != nil {
		return Consistency{}, err
	}
	back, err := metric.NondimensionalForce(gamma)
	if err != nil {
		return Consistency{}, err
	}
	return Consistency{
		Argument: eta,
		Expected: eta,
		Measured: back,
		Residual: RelativeDifference(eta, back),
	}, nil
}
