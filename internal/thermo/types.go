package thermo

// Isotensional is the force-controlled ensemble of a chain model.
// Arguments and results are nondimensional.
type Isotensional interface {
	// EndToEndLengthPerLink returns gamma for a nondimensional force eta.
	EndToEndLengthPerLink(eta float64) (float64, error)
	// GibbsFreeEnergy returns the configurational Gibbs free energy of the
	// whole chain in units of kT, excluding the hinge entropy term.
	GibbsFreeEnergy(eta float64) (float64, error)
}

// Isometric is the extension-controlled ensemble of a chain model.
type Isometric interface {
	// Force returns eta for a nondimensional extension gamma.
	Force(gamma float64) (float64, error)
	// HelmholtzFreeEnergy returns the configurational Helmholtz free energy
	// of the whole chain in units of kT, excluding the hinge entropy term.
	HelmholtzFreeEnergy(gamma float64) (float64, error)
}

// Bounded is implemented by isometric relations with finite support.
type Bounded interface {
	MaxExtension() float64
}
