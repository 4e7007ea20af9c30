package chains

import (
	"fmt"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

type fixture struct {
	kind   Kind
	params Parameters
	// forces and extensions inside every variant's domain
	etas   []float64
	gammas []float64
}

var fixtures = []fixture{
	{KindIdeal, Parameters{}, []float64{0.5, 2, 5}, []float64{0.2, 0.5, 0.8}},
	{KindFJC, Parameters{}, []float64{0.5, 2, 5}, []float64{0.15, 0.45, 0.75}},
	{KindEFJC, Parameters{LinkStiffness: 50}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 1.05}},
	{KindSWFJC, Parameters{WellWidth: 0.2}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 1.0}},
	{KindWLC, Parameters{PersistenceLength: 2}, []float64{0.5, 2, 5}, []float64{0.2, 0.5, 0.8}},
	{KindHarmonicFJC, Parameters{LinkStiffness: 50}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 1.05}},
	{KindMorseFJC, Parameters{LinkStiffness: 500, LinkEnergy: 50}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 0.9}},
	{KindLJFJC, Parameters{LinkStiffness: 500}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 0.9}},
	{KindLogSqFJC, Parameters{LinkStiffness: 500}, []float64{0.5, 2, 5}, []float64{0.2, 0.6, 0.9}},
}

// draw is one randomized model configuration.
type draw struct {
	kind   Kind
	links  uint8
	params Parameters
}

func (d draw) String() string {
	return fmt.Sprintf("%s N=%d %+v", d.kind, d.links, d.params)
}

// randomDraws samples every kind perKind times with log-uniform
// potential parameters from a fixed seed.
func randomDraws(seed uint64, perKind int) []draw {
	r := rand.New(rand.NewPCG(seed, 7))
	logUniform := func(lo, hi float64) float64 { return lo * math.Pow(hi/lo, r.Float64()) }
	ranges := map[string][2]float64{
		"link_stiffness":     {50, 5000},
		"link_energy":        {10, 200},
		"well_width":         {0.05, 1},
		"persistence_length": {0.2, 20},
	}

	var out []draw
	for _, k := range Kinds() {
		for range perKind {
			d := draw{kind: k, links: uint8(1 + r.IntN(255))}
			for _, name := range k.Required() {
				bounds := ranges[name]
				if err := d.params.Set(name, logUniform(bounds[0], bounds[1])); err != nil {
					panic(err)
				}
			}
			out = append(out, d)
		}
	}
	return out
}

// forceCeiling keeps test forces inside every isotensional domain.
func forceCeiling(m Model) float64 {
	if u, ok := m.(*UFJC); ok {
		return math.Min(5, 0.9*u.Potential.MaxForce())
	}
	return 5
}

func expectGibbsSlope(m Model, etas ...float64) {
	n := m.Chain().N()
	for _, v := range m.Variants(Isotensional) {
		view, err := m.Isotensional(v)
		Expect(err).NotTo(HaveOccurred())
		core := view.Core()
		for _, eta := range etas {
			gamma, err := core.EndToEndLengthPerLink(eta)
			Expect(err).NotTo(HaveOccurred(), "variant %s at eta=%v", v, eta)
			slope := central(core.GibbsFreeEnergy, eta, 1e-4)
			Expect(-slope/n).To(BeNumerically("~", gamma, 1e-5*math.Max(1, gamma)),
				"variant %s at eta=%v", v, eta)
		}
	}
}

// expectVanishingResponse checks that every variant starts at the origin:
// no extension without force and no force without extension.
func expectVanishingResponse(m Model) {
	for _, v := range m.Variants(Isotensional) {
		view, _ := m.Isotensional(v)
		core := view.Core()
		zero, err := core.EndToEndLengthPerLink(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(zero).To(BeZero(), "variant %s", v)

		tiny, err := core.EndToEndLengthPerLink(1e-9)
		Expect(err).NotTo(HaveOccurred(), "variant %s", v)
		small, err := core.EndToEndLengthPerLink(1e-3)
		Expect(err).NotTo(HaveOccurred(), "variant %s", v)
		Expect(tiny).To(BeNumerically(">=", 0), "variant %s", v)
		Expect(tiny).To(BeNumerically("<", 1e-3*small), "variant %s: gamma(1e-9)=%v gamma(1e-3)=%v", v, tiny, small)
	}
	for _, v := range m.Variants(Isometric) {
		view, _ := m.Isometric(v)
		core := view.Core()
		for _, gamma := range []float64{1e-4, 1e-2} {
			eta, err := core.Force(gamma)
			Expect(err).NotTo(HaveOccurred(), "variant %s at gamma=%v", v, gamma)
			Expect(eta).To(BeNumerically(">=", -1e-9), "variant %s at gamma=%v", v, gamma)
			Expect(math.IsInf(eta, 0) || math.IsNaN(eta)).To(BeFalse(), "variant %s at gamma=%v", v, gamma)
		}
	}
}

func expectNormalized(d *Distribution) {
	Expect(d).NotTo(BeNil())
	total := numerics.Midpoint(func(gamma float64) float64 {
		g, err := d.NondimensionalRadialDensity(gamma)
		Expect(err).NotTo(HaveOccurred())
		return g
	}, 0, d.Upper(), 1000)
	Expect(total).To(BeNumerically("~", 1, 2e-3))
}

func central(fn func(float64) (float64, error), x, h float64) float64 {
	up, err := fn(x + h)
	Expect(err).NotTo(HaveOccurred())
	down, err := fn(x - h)
	Expect(err).NotTo(HaveOccurred())
	return (up - down) / (2 * h)
}

var _ = Describe("Chain models", func() {
	const temperature = 300.0

	for _, fx := range fixtures {
		Context(string(fx.kind), func() {
			var (
				m Model
				n float64
			)

			BeforeEach(func() {
				c, err := thermo.NewChain(12, 1, 1)
				Expect(err).NotTo(HaveOccurred())
				m, err = New(fx.kind, c, fx.params)
				Expect(err).NotTo(HaveOccurred())
				n = c.N()
			})

			It("derives the extension from the Gibbs free energy", func() {
				expectGibbsSlope(m, fx.etas...)
			})

			It("starts from the origin in both ensembles", func() {
				expectVanishingResponse(m)
			})

			It("derives the force from the Helmholtz free energy", func() {
				for _, v := range m.Variants(Isometric) {
					view, err := m.Isometric(v)
					Expect(err).NotTo(HaveOccurred())
					core := view.Core()
					for _, gamma := range fx.gammas {
						eta, err := core.Force(gamma)
						Expect(err).NotTo(HaveOccurred())
						slope := central(core.HelmholtzFreeEnergy, gamma, 1e-5)
						Expect(slope/n).To(BeNumerically("~", eta, 1e-4*math.Max(1, eta)),
							"variant %s at gamma=%v", v, gamma)
					}
				}
			})

			It("keeps per-link and relative flavours consistent", func() {
				ten, err := m.Isotensional(Auto)
				Expect(err).NotTo(HaveOccurred())
				iso, err := m.Isometric(Auto)
				Expect(err).NotTo(HaveOccurred())

				eta := fx.etas[1]
				g, err := ten.NondimensionalGibbsFreeEnergy(eta, temperature)
				Expect(err).NotTo(HaveOccurred())
				perLink, err := ten.NondimensionalGibbsFreeEnergyPerLink(eta, temperature)
				Expect(err).NotTo(HaveOccurred())
				Expect(perLink).To(BeNumerically("~", g/n, 1e-12*math.Abs(g)))

				zero, err := ten.NondimensionalRelativeGibbsFreeEnergy(thermo.Zero)
				Expect(err).NotTo(HaveOccurred())
				Expect(zero).To(BeNumerically("~", 0, 1e-12))

				gamma := fx.gammas[1]
				psi, err := iso.NondimensionalHelmholtzFreeEnergy(gamma, temperature)
				Expect(err).NotTo(HaveOccurred())
				psiPerLink, err := iso.NondimensionalHelmholtzFreeEnergyPerLink(gamma, temperature)
				Expect(err).NotTo(HaveOccurred())
				Expect(psiPerLink).To(BeNumerically("~", psi/n, 1e-12*math.Abs(psi)))

				rel, err := iso.NondimensionalRelativeHelmholtzFreeEnergy(gamma)
				Expect(err).NotTo(HaveOccurred())
				Expect(rel).To(BeNumerically(">", 0))
			})

			It("round-trips dimensional quantities", func() {
				ten, _ := m.Isotensional(Auto)
				iso, _ := m.Isometric(Auto)
				c := m.Chain()

				force := c.Force(fx.etas[0], temperature)
				length, err := ten.EndToEndLength(force, temperature)
				Expect(err).NotTo(HaveOccurred())
				gamma, _ := ten.NondimensionalEndToEndLengthPerLink(fx.etas[0])
				Expect(length).To(BeNumerically("~", c.Extension(gamma), 1e-8))

				xi := c.Extension(fx.gammas[0])
				f, err := iso.Force(xi, temperature)
				Expect(err).NotTo(HaveOccurred())
				eta, _ := iso.NondimensionalForce(fx.gammas[0])
				Expect(c.NondimensionalForce(f, temperature)).To(BeNumerically("~", eta, 1e-6*math.Max(1, eta)))
			})

			It("normalizes the equilibrium distribution", func() {
				d := m.Distribution()
				expectNormalized(d)

				p, err := d.NondimensionalDensity(d.Upper() * 1.01)
				Expect(err).NotTo(HaveOccurred())
				Expect(p).To(BeZero())
			})
		})
	}
})

var _ = Describe("Randomized models", func() {
	for _, d := range randomDraws(20240611, 3) {
		It(d.String(), func() {
			c, err := thermo.NewChain(d.links, 1, 1)
			Expect(err).NotTo(HaveOccurred())
			m, err := New(d.kind, c, d.params)
			Expect(err).NotTo(HaveOccurred())

			ceiling := forceCeiling(m)
			expectGibbsSlope(m, 0.3*ceiling, 0.7*ceiling)
			expectVanishingResponse(m)
			expectNormalized(m.Distribution())
		})
	}
})
