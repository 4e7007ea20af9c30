package experiment

import (
	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/sweep"
	"github.com/san-kum/polysim/internal/thermo"
)

// Argument names the independent variable of an observable.
type Argument string

const (
	ArgEta    Argument = "eta"
	ArgGamma  Argument = "gamma"
	ArgForce  Argument = "force"
	ArgLength Argument = "end_to_end_length"
)

// Observable is a named quantity evaluated in one ensemble.
type Observable struct {
	Name string
	// Ensemble is empty for distribution observables.
	Ensemble chains.Ensemble
	Argument Argument
	bind     func(m chains.Model, v chains.Variant, temperature float64) (sweep.Func, error)
}

// Bind resolves the variant once and returns the per-argument evaluator.
func (o Observable) Bind(m chains.Model, v chains.Variant, temperature float64) (sweep.Func, error) {
	return o.bind(m, v, temperature)
}

type (
	tensionFunc func(v thermo.IsotensionalView, x, temperature float64) (float64, error)
	metricFunc  func(v thermo.IsometricView, x, temperature float64) (float64, error)
	densityFunc func(d *chains.Distribution, x float64) (float64, error)
)

func isotensional(name string, arg Argument, f tensionFunc) Observable {
	return Observable{
		Name:     name,
		Ensemble: chains.Isotensional,
		Argument: arg,
		bind: func(m chains.Model, v chains.Variant, temperature float64) (sweep.Func, error) {
			view, err := m.Isotensional(v)
			if err != nil {
				return nil, err
			}
			return func(x float64) (float64, error) { return f(view, x, temperature) }, nil
		},
	}
}

func isometric(name string, arg Argument, f metricFunc) Observable {
	return Observable{
		Name:     name,
		Ensemble: chains.Isometric,
		Argument: arg,
		bind: func(m chains.Model, v chains.Variant, temperature float64) (sweep.Func, error) {
			view, err := m.Isometric(v)
			if err != nil {
				return nil, err
			}
			return func(x float64) (float64, error) { return f(view, x, temperature) }, nil
		},
	}
}

func distribution(name string, arg Argument, f densityFunc) Observable {
	return Observable{
		Name:     name,
		Argument: arg,
		bind: func(m chains.Model, _ chains.Variant, _ float64) (sweep.Func, error) {
			d := m.Distribution()
			return func(x float64) (float64, error) { return f(d, x) }, nil
		},
	}
}

func defaultObservables() []Observable {
	return []Observable{
		isotensional("nondimensional_end_to_end_length", ArgEta,
			func(v thermo.IsotensionalView, x, _ float64) (float64, error) { return v.NondimensionalEndToEndLength(x) }),
		isotensional("nondimensional_end_to_end_length_per_link", ArgEta,
			func(v thermo.IsotensionalView, x, _ float64) (float64, error) {
				return v.NondimensionalEndToEndLengthPerLink(x)
			}),
		isotensional("end_to_end_length", ArgForce, thermo.IsotensionalView.EndToEndLength),
		isotensional("end_to_end_length_per_link", ArgForce, thermo.IsotensionalView.EndToEndLengthPerLink),
		isotensional("nondimensional_gibbs_free_energy", ArgEta, thermo.IsotensionalView.NondimensionalGibbsFreeEnergy),
		isotensional("nondimensional_gibbs_free_energy_per_link", ArgEta,
			thermo.IsotensionalView.NondimensionalGibbsFreeEnergyPerLink),
		isotensional("nondimensional_relative_gibbs_free_energy", ArgEta,
			func(v thermo.IsotensionalView, x, _ float64) (float64, error) {
				return v.NondimensionalRelativeGibbsFreeEnergy(x)
			}),
		isotensional("nondimensional_relative_gibbs_free_energy_per_link", ArgEta,
			func(v thermo.IsotensionalView, x, _ float64) (float64, error) {
				return v.NondimensionalRelativeGibbsFreeEnergyPerLink(x)
			}),
		isotensional("gibbs_free_energy", ArgForce, thermo.IsotensionalView.GibbsFreeEnergy),
		isotensional("gibbs_free_energy_per_link", ArgForce, thermo.IsotensionalView.GibbsFreeEnergyPerLink),
		isotensional("relative_gibbs_free_energy", ArgForce, thermo.IsotensionalView.RelativeGibbsFreeEnergy),
		isotensional("relative_gibbs_free_energy_per_link", ArgForce,
			thermo.IsotensionalView.RelativeGibbsFreeEnergyPerLink),

		isometric("nondimensional_force", ArgGamma,
			func(v thermo.IsometricView, x, _ float64) (float64, error) { return v.NondimensionalForce(x) }),
		isometric("force", ArgLength, thermo.IsometricView.Force),
		isometric("nondimensional_helmholtz_free_energy", ArgGamma,
			thermo.IsometricView.NondimensionalHelmholtzFreeEnergy),
		isometric("nondimensional_helmholtz_free_energy_per_link", ArgGamma,
			thermo.IsometricView.NondimensionalHelmholtzFreeEnergyPerLink),
		isometric("nondimensional_relative_helmholtz_free_energy", ArgGamma,
			func(v thermo.IsometricView, x, _ float64) (float64, error) {
				return v.NondimensionalRelativeHelmholtzFreeEnergy(x)
			}),
		isometric("nondimensional_relative_helmholtz_free_energy_per_link", ArgGamma,
			func(v thermo.IsometricView, x, _ float64) (float64, error) {
				return v.NondimensionalRelativeHelmholtzFreeEnergyPerLink(x)
			}),
		isometric("helmholtz_free_energy", ArgLength, thermo.IsometricView.HelmholtzFreeEnergy),
		isometric("helmholtz_free_energy_per_link", ArgLength, thermo.IsometricView.HelmholtzFreeEnergyPerLink),
		isometric("relative_helmholtz_free_energy", ArgLength, thermo.IsometricView.RelativeHelmholtzFreeEnergy),
		isometric("relative_helmholtz_free_energy_per_link", ArgLength,
			thermo.IsometricView.RelativeHelmholtzFreeEnergyPerLink),

		distribution("nondimensional_density", ArgGamma, (*chains.Distribution).NondimensionalDensity),
		distribution("nondimensional_radial_density", ArgGamma, (*chains.Distribution).NondimensionalRadialDensity),
		distribution("density", ArgLength, (*chains.Distribution).Density),
		distribution("radial_density", ArgLength, (*chains.Distribution).RadialDensity),
	}
}
