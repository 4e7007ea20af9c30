package chains

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// markoSiggia is the interpolated continuum worm-like chain response
//
//	eta = (l/lp) [1/(4(1-gamma)^2) - 1/4 + gamma]
//
// with persistence the ratio lp/l. It is exact at both ends of the
// extension range and a few percent off in between.
type markoSiggia struct {
	n, persistence float64
}

func (w markoSiggia) MaxExtension() float64 { return 1 }

func (w markoSiggia) check(gamma float64) error {
	if gamma < 0 {
		return &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	}
	if gamma >= 1 {
		return &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 1}
	}
	return nil
}

func (w markoSiggia) Force(gamma float64) (float64, error) {
	if err := w.check(gamma); err != nil {
		return 0, err
	}
	u := 1 - gamma
	return (1/(4*u*u) - 0.25 + gamma) / w.persistence, nil
}

func (w markoSiggia) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	if err := w.check(gamma); err != nil {
		return 0, err
	}
	return w.n / w.persistence * (1/(4*(1-gamma)) - 0.25 - gamma/4 + gamma*gamma/2), nil
}

// rigidRod treats the whole chain as one rotating rod, the limit of a
// persistence length much longer than the contour.
type rigidRod struct{ n float64 }

func (r rigidRod) EndToEndLengthPerLink(eta float64) (float64, error) {
	return numerics.BesselIRatio(0.5, r.n*eta), nil
}

func (r rigidRod) GibbsFreeEnergy(eta float64) (float64, error) {
	return -numerics.LogSinhc(r.n * eta), nil
}

// BondCosine is the mean cosine between neighbouring bonds of the
// unstretched discrete chain, I_{3/2}(lp/l) / I_{1/2}(lp/l).
func BondCosine(persistence float64) float64 {
	return numerics.BesselIRatio(0.5, persistence)
}

// CharacteristicRatio is <R^2>/(N l^2) of the unstretched discrete chain,
// whose bond correlations decay as c^|i-j|.
func CharacteristicRatio(n, persistence float64) float64 {
	c := BondCosine(persistence)
	return (1+c)/(1-c) - 2*c*(1-math.Pow(c, n))/(n*(1-c)*(1-c))
}

// wormGaussian is the small-extension response eta = 3 gamma / C.
type wormGaussian struct{ n, ratio float64 }

func (w wormGaussian) Force(gamma float64) (float64, error) {
	if gamma < 0 {
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	}
	return 3 * gamma / w.ratio, nil
}

func (w wormGaussian) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	return 1.5 * w.n * gamma * gamma / w.ratio, nil
}

// transferOrders are the Gauss-Legendre orders of the bond cosine grids.
var transferOrders = [...]int{64, 128, 256, 512}

type transferGrid struct {
	once sync.Once
	x, w []float64
	// kernel is the m x m bending kernel, row major.
	kernel []float64
}

func (g *transferGrid) build(m int, kappa float64) {
	g.x = make([]float64, m)
	g.w = make([]float64, m)
	quad.Legendre{}.FixedLocations(g.x, g.w, -1, 1)

	sin := make([]float64, m)
	for i, x := range g.x {
		sin[i] = math.Sqrt((1 - x) * (1 + x))
		g.w[i] /= 2
	}
	g.kernel = make([]float64, m*m)
	for i := range m {
		for j := i; j < m; j++ {
			z := kappa * sin[i] * sin[j]
			k := math.Exp(kappa*(g.x[i]*g.x[j]+sin[i]*sin[j]-1)) * numerics.BesselIScaled(0, z)
			g.kernel[i*m+j] = k
			g.kernel[j*m+i] = k
		}
	}
}

// wormTransfer is the exact isotensional response of the discrete chain of
// N unit bonds with bending energy (lp/l)(1 - cos theta) between
// neighbours. Integrating out the azimuths leaves the kernel
//
//	K(x, x') = exp(kappa (x x' - 1)) I_0(kappa sqrt(1-x^2) sqrt(1-x'^2))
//
// over bond cosines x along the force, applied N-1 times on a
// Gauss-Legendre grid.
type wormTransfer struct {
	links       int
	persistence float64
	grids       *[len(transferOrders)]transferGrid
}

func newWormTransfer(links int, persistence float64) wormTransfer {
	return wormTransfer{
		links:       links,
		persistence: persistence,
		grids:       new([len(transferOrders)]transferGrid),
	}
}

// grid picks the smallest order resolving both the bending kernel, of
// angular width 1/sqrt(kappa), and the force weight, of width sqrt(2/eta).
// Grids are built on first use and shared by copies.
func (w wormTransfer) grid(eta float64) *transferGrid {
	need := 8 * math.Pi * math.Sqrt(math.Max(w.persistence, eta/2))
	i := 0
	for i < len(transferOrders)-1 && float64(transferOrders[i]) < need {
		i++
	}
	g := &w.grids[i]
	g.once.Do(func() { g.build(transferOrders[i], w.persistence) })
	return g
}

// partition returns ln Z and gamma = (1/N) d ln Z/d eta.
func (w wormTransfer) partition(eta float64) (lnz, gamma float64) {
	g := w.grid(eta)
	m := len(g.x)

	// weights carry exp(eta (x-1)); the N eta is restored in lnz
	weight := make([]float64, m)
	v := make([]float64, m)
	dv := make([]float64, m)
	for k, x := range g.x {
		weight[k] = g.w[k] * math.Exp(eta*(x-1))
		v[k] = weight[k]
		dv[k] = x * weight[k]
	}

	lnz = float64(w.links) * eta
	kv := make([]float64, m)
	kdv := make([]float64, m)
	for range w.links - 1 {
		scale := floats.Sum(v)
		floats.Scale(1/scale, v)
		floats.Scale(1/scale, dv)
		lnz += math.Log(scale)

		for k := range m {
			row := g.kernel[k*m : (k+1)*m]
			kv[k] = floats.Dot(row, v)
			kdv[k] = floats.Dot(row, dv)
		}
		for k, x := range g.x {
			v[k] = weight[k] * kv[k]
			dv[k] = weight[k] * (x*kv[k] + kdv[k])
		}
	}

	total := floats.Sum(v)
	return lnz + math.Log(total), floats.Sum(dv) / (total * float64(w.links))
}

func (w wormTransfer) EndToEndLengthPerLink(eta float64) (float64, error) {
	if eta == 0 {
		return 0, nil
	}
	if eta < 0 {
		gamma, err := w.EndToEndLengthPerLink(-eta)
		return -gamma, err
	}
	_, gamma := w.partition(eta)
	return gamma, nil
}

func (w wormTransfer) GibbsFreeEnergy(eta float64) (float64, error) {
	lnz, _ := w.partition(math.Abs(eta))
	return -lnz, nil
}

// WLC is the discrete worm-like chain with persistence length Persistence
// in units of the link length.
type WLC struct {
	base
	Persistence float64
}

func NewWLC(c thermo.Chain, persistence float64) (*WLC, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := thermo.Positive("persistence_length", persistence); err != nil {
		return nil, err
	}
	n := c.N()
	m := &WLC{base: newBase(KindWLC, c, Parameters{PersistenceLength: persistence}), Persistence: persistence}

	exact := newWormTransfer(int(c.NumberOfLinks), persistence)
	interpolated := markoSiggia{n: n, persistence: persistence}

	m.addIsotensional(Exact, exact)
	m.addIsotensional(Legendre, legendreIsotensional{
		n:      n,
		source: interpolated,
		guess: func(eta float64) float64 {
			small := 2 * persistence * eta / 3
			large := 1 - 1/(2*math.Sqrt(persistence*eta)+1)
			return math.Min(small, large)
		},
		solver: numerics.NewNewton().WithPower(2).WithBounds(0, 1),
	})
	m.addIsotensional(Asymptotic, rigidRod{n: n})

	// the interpolation is preferred: the distribution integrates it at
	// every quadrature point
	m.addIsometric(Asymptotic, interpolated)
	m.addIsometric(Legendre, legendreIsometric{
		n:      n,
		source: exact,
		guess: func(gamma float64) float64 {
			eta, _ := interpolated.Force(gamma)
			return eta
		},
		solver: numerics.NewNewton().WithPower(2).WithBounds(0, math.Inf(1)),
		limit:  1,
	})
	m.addIsometric(Reduced, wormGaussian{n: n, ratio: CharacteristicRatio(n, persistence)})

	if err := m.distribute(1); err != nil {
		return nil, err
	}
	return m, nil
}
