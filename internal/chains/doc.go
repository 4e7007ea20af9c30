// Package chains provides the single-chain models and their ensembles.
//
// Each model pairs an isotensional (force-controlled) and an isometric
// (extension-controlled) description in one or more variants:
//
//   - [Ideal]: Langevin chain with a Gaussian small-extension asymptote
//   - [FJC]: freely jointed chain with the exact finite-N distribution
//   - [EFJC]: harmonic extensible links, exact and asymptotic
//   - [SWFJC]: square-well links, exact and narrow-well asymptotic
//   - [WLC]: worm-like chain, interpolated force with a rigid-rod limit
//   - [UFJC]: arbitrary link potential (Morse, Lennard-Jones, log-squared)
//
// Variants missing an exact inversion are bridged with a Legendre
// transformation, exact only as the number of links grows without bound.
//
// # Example
//
//	c, _ := thermo.NewChain(50, 1.0, 1.0)
//	m, _ := chains.New(chains.KindIdeal, c, chains.Parameters{})
//	iso, _ := m.Isometric(chains.Auto)
//	eta, _ := iso.NondimensionalForce(0.3)
//
// Models are immutable; derived constants and the distribution
// normalization are computed once by the constructor.
package chains
