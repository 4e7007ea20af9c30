package thermo

// IsotensionalView derives every flavour of the isotensional observables
// from a single core relation.
type IsotensionalView struct {
	Chain Chain
	core  Isotensional
}

func NewIsotensionalView(c Chain, core Isotensional) IsotensionalView {
	return IsotensionalView{Chain: c, core: core}
}

// Core returns the underlying nondimensional relation.
func (v IsotensionalView) Core() Isotensional { return v.core }

func (v IsotensionalView) NondimensionalEndToEndLengthPerLink(eta float64) (float64, error) {
	return v.core.EndToEndLengthPerLink(eta)
}

func (v IsotensionalView) NondimensionalEndToEndLength(eta float64) (float64, error) {
	gamma, err := v.core.EndToEndLengthPerLink(eta)
	return v.Chain.N() * gamma, err
}

func (v IsotensionalView) EndToEndLength(force, temperature float64) (float64, error) {
	gamma, err := v.core.EndToEndLengthPerLink(v.Chain.NondimensionalForce(force, temperature))
	return v.Chain.Extension(gamma), err
}

func (v IsotensionalView) EndToEndLengthPerLink(force, temperature float64) (float64, error) {
	gamma, err := v.core.EndToEndLengthPerLink(v.Chain.NondimensionalForce(force, temperature))
	return gamma * v.Chain.LinkLength, err
}

func (v IsotensionalView) NondimensionalGibbsFreeEnergy(eta, temperature float64) (float64, error) {
	g, err := v.core.GibbsFreeEnergy(eta)
	if err != nil {
		return 0, err
	}
	return g - v.Chain.N()*v.Chain.HingeEntropy(temperature), nil
}

func (v IsotensionalView) NondimensionalGibbsFreeEnergyPerLink(eta, temperature float64) (float64, error) {
	g, err := v.NondimensionalGibbsFreeEnergy(eta, temperature)
	return g / v.Chain.N(), err
}

// NondimensionalRelativeGibbsFreeEnergy is measured from the Zero force state.
func (v IsotensionalView) NondimensionalRelativeGibbsFreeEnergy(eta float64) (float64, error) {
	g, err := v.core.GibbsFreeEnergy(eta)
	if err != nil {
		return 0, err
	}
	g0, err := v.core.GibbsFreeEnergy(Zero)
	if err != nil {
		return 0, err
	}
	return g - g0, nil
}

func (v IsotensionalView) NondimensionalRelativeGibbsFreeEnergyPerLink(eta float64) (float64, error) {
	dg, err := v.NondimensionalRelativeGibbsFreeEnergy(eta)
	return dg / v.Chain.N(), err
}

func (v IsotensionalView) GibbsFreeEnergy(force, temperature float64) (float64, error) {
	g, err := v.NondimensionalGibbsFreeEnergy(v.Chain.NondimensionalForce(force, temperature), temperature)
	return v.Chain.Energy(g, temperature), err
}

func (v IsotensionalView) GibbsFreeEnergyPerLink(force, temperature float64) (float64, error) {
	g, err := v.GibbsFreeEnergy(force, temperature)
	return g / v.Chain.N(), err
}

func (v IsotensionalView) RelativeGibbsFreeEnergy(force, temperature float64) (float64, error) {
	dg, err := v.NondimensionalRelativeGibbsFreeEnergy(v.Chain.NondimensionalForce(force, temperature))
	return v.Chain.Energy(dg, temperature), err
}

func (v IsotensionalView) RelativeGibbsFreeEnergyPerLink(force, temperature float64) (float64, error) {
	dg, err := v.RelativeGibbsFreeEnergy(force, temperature)
	return dg / v.Chain.N(), err
}

// IsometricView is the extension-controlled counterpart of IsotensionalView.
type IsometricView struct {
	Chain Chain
	core  Isometric
}

func NewIsometricView(c Chain, core Isometric) IsometricView {
	return IsometricView{Chain: c, core: core}
}

func (v IsometricView) Core() Isometric { return v.core }

func (v IsometricView) NondimensionalForce(gamma float64) (float64, error) {
	return v.core.Force(gamma)
}

func (v IsometricView) Force(endToEndLength, temperature float64) (float64, error) {
	eta, err := v.core.Force(v.Chain.NondimensionalExtension(endToEndLength))
	return v.Chain.Force(eta, temperature), err
}

func (v IsometricView) NondimensionalHelmholtzFreeEnergy(gamma, temperature float64) (float64, error) {
	psi, err := v.core.HelmholtzFreeEnergy(gamma)
	if err != nil {
		return 0, err
	}
	return psi - v.Chain.N()*v.Chain.HingeEntropy(temperature), nil
}

func (v IsometricView) NondimensionalHelmholtzFreeEnergyPerLink(gamma, temperature float64) (float64, error) {
	psi, err := v.NondimensionalHelmholtzFreeEnergy(gamma, temperature)
	return psi / v.Chain.N(), err
}

// NondimensionalRelativeHelmholtzFreeEnergy is measured from the Zero extension state.
func (v IsometricView) NondimensionalRelativeHelmholtzFreeEnergy(gamma float64) (float64, error) {
	psi, err := v.core.HelmholtzFreeEnergy(gamma)
	if err != nil {
		return 0, err
	}
	psi0, err := v.core.HelmholtzFreeEnergy(Zero)
	if err != nil {
		return 0, err
	}
	return psi - psi0, nil
}

func (v IsometricView) NondimensionalRelativeHelmholtzFreeEnergyPerLink(gamma float64) (float64, error) {
	dpsi, err := v.NondimensionalRelativeHelmholtzFreeEnergy(gamma)
	return dpsi / v.Chain.N(), err
}

func (v IsometricView) HelmholtzFreeEnergy(endToEndLength, temperature float64) (float64, error) {
	psi, err := v.NondimensionalHelmholtzFreeEnergy(v.Chain.NondimensionalExtension(endToEndLength), temperature)
	return v.Chain.Energy(psi, temperature), err
}

func (v IsometricView) HelmholtzFreeEnergyPerLink(endToEndLength, temperature float64) (float64, error) {
	psi, err := v.HelmholtzFreeEnergy(endToEndLength, temperature)
	return psi / v.Chain.N(), err
}

func (v IsometricView) RelativeHelmholtzFreeEnergy(endToEndLength, temperature float64) (float64, error) {
	dpsi, err := v.NondimensionalRelativeHelmholtzFreeEnergy(v.Chain.NondimensionalExtension(endToEndLength))
	return v.Chain.Energy(dpsi, temperature), err
}

func (v IsometricView) RelativeHelmholtzFreeEnergyPerLink(endToEndLength, temperature float64) (float64, error) {
	dpsi, err := v.RelativeHelmholtzFreeEnergy(endToEndLength, temperature)
	return dpsi / v.Chain.N(), err
}
