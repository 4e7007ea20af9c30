// Package thermo provides the shared vocabulary of the polymer chain models.
//
// The package defines the pieces every chain model is built from:
//
//   - [Chain]: number of links, link length and hinge mass
//   - [Isotensional]: force-controlled ensemble (eta -> gamma, Gibbs)
//   - [Isometric]: extension-controlled ensemble (gamma -> eta, Helmholtz)
//   - [IsotensionalView], [IsometricView]: every flavour of an observable
//     (absolute, relative, per-link, dimensional) derived from one core
//
// # Nondimensionalization
//
// Forces are scaled as eta = f*l/(k*T), extensions as gamma = xi/(N*l)
// and free energies are expressed in units of k*T. The conversions on
// [Chain] are exact multiplicative relations.
//
// # Example
//
//	c, _ := thermo.NewChain(8, 1.0, 1.0)
//	view := thermo.NewIsotensionalView(c, core)
//	xi, _ := view.EndToEndLength(force, 300)
//
// # Thread Safety
//
// All values are immutable after construction and safe for concurrent use.
package thermo
