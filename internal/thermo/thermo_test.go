package thermo

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

// quadraticCore has g = -N eta^2/6 and psi = 3N gamma^2/2.
type quadraticCore struct{ n float64 }

func (q quadraticCore) EndToEndLengthPerLink(eta float64) (float64, error) { return eta / 3, nil }
func (q quadraticCore) GibbsFreeEnergy(eta float64) (float64, error)       { return -q.n * eta * eta / 6, nil }
func (q quadraticCore) Force(gamma float64) (float64, error)               { return 3 * gamma, nil }
func (q quadraticCore) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	return 1.5 * q.n * gamma * gamma, nil
}

func TestNewChain_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		n      uint8
		l, m   float64
		target string
	}{
		{"zero links", 0, 1, 1, "number_of_links"},
		{"zero length", 4, 0, 1, "link_length"},
		{"negative length", 4, -1, 1, "link_length"},
		{"NaN mass", 4, 1, math.NaN(), "hinge_mass"},
		{"infinite mass", 4, 1, math.Inf(1), "hinge_mass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChain(tt.n, tt.l, tt.m)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			var pe *ParameterError
			if !errors.As(err, &pe) || pe.Name != tt.target {
				t.Errorf("expected parameter %s, got %v", tt.target, err)
			}
		})
	}
}

func TestChain_Nondimensionalization(t *testing.T) {
	g := NewWithT(t)
	c, err := NewChain(25, 0.7, 1.3)
	g.Expect(err).NotTo(HaveOccurred())

	temperature := 310.0
	force := 12.5
	eta := c.NondimensionalForce(force, temperature)
	g.Expect(eta).To(BeNumerically("~", force*0.7/(BoltzmannConstant*temperature), 1e-15))
	g.Expect(c.Force(eta, temperature)).To(BeNumerically("~", force, 1e-12))

	xi := 6.0
	gamma := c.NondimensionalExtension(xi)
	g.Expect(gamma).To(BeNumerically("~", xi/17.5, 1e-15))
	g.Expect(c.Extension(gamma)).To(BeNumerically("~", xi, 1e-12))
	g.Expect(c.ContourLength()).To(BeNumerically("~", 17.5, 1e-12))
}

func TestIsotensionalView_Flavours(t *testing.T) {
	g := NewWithT(t)
	c, _ := NewChain(10, 1.0, 1.0)
	v := NewIsotensionalView(c, quadraticCore{n: c.N()})
	temperature := 300.0
	force := c.Force(1.5, temperature)

	abs, err := v.NondimensionalGibbsFreeEnergy(1.5, temperature)
	g.Expect(err).NotTo(HaveOccurred())
	perLink, _ := v.NondimensionalGibbsFreeEnergyPerLink(1.5, temperature)
	g.Expect(perLink).To(BeNumerically("~", abs/10, 1e-12))

	rel, _ := v.NondimensionalRelativeGibbsFreeEnergy(1.5)
	ref, _ := v.NondimensionalGibbsFreeEnergy(Zero, temperature)
	g.Expect(rel).To(BeNumerically("~", abs-ref, 1e-10))

	relZero, _ := v.NondimensionalRelativeGibbsFreeEnergy(Zero)
	g.Expect(math.Abs(relZero)).To(BeNumerically("<=", c.N()*Zero))

	dim, _ := v.GibbsFreeEnergy(force, temperature)
	g.Expect(dim).To(BeNumerically("~", abs*BoltzmannConstant*temperature, 1e-8))

	xi, _ := v.EndToEndLength(force, temperature)
	g.Expect(xi).To(BeNumerically("~", 10*0.5, 1e-12))
	xiLink, _ := v.EndToEndLengthPerLink(force, temperature)
	g.Expect(xiLink).To(BeNumerically("~", xi/10, 1e-12))
}

func TestIsometricView_Flavours(t *testing.T) {
	g := NewWithT(t)
	c, _ := NewChain(10, 2.0, 1.0)
	v := NewIsometricView(c, quadraticCore{n: c.N()})
	temperature := 300.0
	xi := c.Extension(0.4)

	f, err := v.Force(xi, temperature)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.NondimensionalForce(f, temperature)).To(BeNumerically("~", 1.2, 1e-12))

	abs, _ := v.HelmholtzFreeEnergy(xi, temperature)
	perLink, _ := v.HelmholtzFreeEnergyPerLink(xi, temperature)
	g.Expect(perLink).To(BeNumerically("~", abs/10, 1e-9))

	rel, _ := v.RelativeHelmholtzFreeEnergy(xi, temperature)
	g.Expect(rel).To(BeNumerically("~", 1.5*10*(0.16-Zero*Zero)*BoltzmannConstant*temperature, 1e-6))
}

func TestHingeEntropy_Cancels(t *testing.T) {
	c, _ := NewChain(5, 1.0, 1.0)
	iso := NewIsotensionalView(c, quadraticCore{n: c.N()})
	met := NewIsometricView(c, quadraticCore{n: c.N()})

	for _, temperature := range []float64{100, 300, 1000} {
		g, _ := iso.NondimensionalGibbsFreeEnergy(Zero, temperature)
		psi, _ := met.NondimensionalHelmholtzFreeEnergy(Zero, temperature)
		if math.Abs(g-psi) > 1e-10 {
			t.Errorf("T=%v: hinge terms differ: %v vs %v", temperature, g, psi)
		}
	}
}
