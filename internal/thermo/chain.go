package thermo

import "math"

// Chain is the structural descriptor shared by every model.
type Chain struct {
	NumberOfLinks uint8
	LinkLength    float64
	HingeMass     float64
}

// NewChain validates and returns a chain descriptor.
func NewChain(numberOfLinks uint8, linkLength, hingeMass float64) (Chain, error) {
	c := Chain{
		NumberOfLinks: numberOfLinks,
		LinkLength:    linkLength,
		HingeMass:     hingeMass,
	}
	return c, c.Validate()
}

func (c Chain) Validate() error {
	if c.NumberOfLinks == 0 {
		return &ParameterError{Name: "number_of_links", Value: 0}
	}
	if err := Positive("link_length", c.LinkLength); err != nil {
		return err
	}
	return Positive("hinge_mass", c.HingeMass)
}

// N is the number of links as a float.
func (c Chain) N() float64 { return float64(c.NumberOfLinks) }

func (c Chain) ContourLength() float64 { return c.N() * c.LinkLength }

// NondimensionalForce maps a force to eta = f*l/(k*T).
func (c Chain) NondimensionalForce(force, temperature float64) float64 {
	return force * c.LinkLength / (BoltzmannConstant * temperature)
}

// Force is the inverse of NondimensionalForce.
func (c Chain) Force(eta, temperature float64) float64 {
	return eta * BoltzmannConstant * temperature / c.LinkLength
}

// NondimensionalExtension maps an end-to-end length to gamma = xi/(N*l).
func (c Chain) NondimensionalExtension(endToEndLength float64) float64 {
	return endToEndLength / c.ContourLength()
}

func (c Chain) Extension(gamma float64) float64 {
	return gamma * c.ContourLength()
}

// Energy converts a nondimensional free energy into energy units.
func (c Chain) Energy(nondimensional, temperature float64) float64 {
	return nondimensional * BoltzmannConstant * temperature
}

// HingeEntropy is the per-link phase-space term ln(8 pi^2 m l^2 k T / hbar^2).
// Absolute free energies carry -N times this value in both ensembles.
func (c Chain) HingeEntropy(temperature float64) float64 {
	return math.Log(8 * math.Pi * math.Pi * c.HingeMass * c.LinkLength * c.LinkLength *
		BoltzmannConstant * temperature / (PlanckConstant * PlanckConstant))
}
