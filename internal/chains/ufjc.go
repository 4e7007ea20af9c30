package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// stretcher finds the link stretch s* balancing the applied force,
// u'(s*) = eta, on the stable branch [1, Inflection), and the compressed
// stretch u'(s) = -eta on (0, 1).
type stretcher struct {
	potential  Potential
	solver     *numerics.Newton
	compressor *numerics.Newton
}

func newStretcher(p Potential) stretcher {
	return stretcher{
		potential:  p,
		solver:     numerics.NewNewton().WithBounds(0, p.Inflection()),
		compressor: numerics.NewNewton().WithBounds(0, 1),
	}
}

func (s stretcher) stretch(eta float64) (float64, error) {
	if eta == 0 {
		return 1, nil
	}
	if limit := s.potential.MaxForce(); eta >= limit {
		return 0, &thermo.RangeError{Quantity: "eta", Value: eta, Limit: limit}
	}
	guess := 1 + eta/s.potential.Kappa()
	if inflection := s.potential.Inflection(); guess >= inflection {
		guess = 1 + 0.95*(inflection-1)
	}
	return s.solver.Invert(s.potential.Force, s.potential.Stiffness, eta, guess)
}

// contactStretch bounds the compressed root from below.
const contactStretch = 1e-9

// compress returns the stretch holding a compressive force eta, or zero
// when the potential cannot resist it before the links vanish.
func (s stretcher) compress(eta float64) (float64, error) {
	p := s.potential
	if eta == 0 {
		return 1, nil
	}
	if p.Force(contactStretch) > -eta {
		return 0, nil
	}
	guess := 1 - eta/p.Kappa()
	if guess <= contactStretch {
		guess = 0.5
	}
	return s.compressor.Invert(p.Force, p.Stiffness, -eta, guess)
}

// thirdDerivative is u'''(s) by central difference of the stiffness.
func (s stretcher) thirdDerivative(x float64) float64 {
	h := 1e-5 * x
	return (s.potential.Stiffness(x+h) - s.potential.Stiffness(x-h)) / (2 * h)
}

// saddle returns ln A and d(ln A)/d|eta| for the Laplace evaluation of
// the integral of s exp(+-eta s - u(s)) around the stationary stretch x.
// The sign selects the stretched (+1) or compressed (-1) side.
func (s stretcher) saddle(eta, x, sign float64) (lnA, slope float64) {
	p := s.potential
	k := p.Stiffness(x)
	lnA = math.Log(x) + sign*eta*x - p.Energy(x) + 0.5*math.Log(2*math.Pi/k)
	slope = sign * (x + (1/x-0.5*s.thirdDerivative(x)/k)/k)
	return lnA, slope
}

const (
	// laplaceSmallForce is where the full asymptotic switches to its
	// odd series; below it the two saddles cancel to working precision.
	// Potentials with a lower maximum force switch at a quarter of it.
	laplaceSmallForce = 1e-2
	// laplaceFarForce is where the compressed saddle drops below
	// exp(-eta) of the stretched one and is ignored.
	laplaceFarForce = 40
)

// ufjcAsymptotic is the Laplace evaluation of the single link partition
// function
//
//	z = (1/eta) int s exp(-u(s)) sinh(eta s) ds
//	  ~ (A+ - A-) / (2 eta),  A+- = s exp(+-eta s - u(s)) sqrt(2 pi/u''(s))
//
// with the stretched saddle u'(s) = eta and the compressed one u'(s) = -eta.
// z stays even in eta, so gamma vanishes at zero force. Reduced keeps only
// the stretched saddle with u'' frozen at kappa:
//
//	ln z = ln sinhc(eta) + eta(s*-1) - u(s*) + ln(2 pi/kappa)/2
type ufjcAsymptotic struct {
	n       float64
	links   stretcher
	reduced bool
	// gamma = a eta + b eta^3 below small, joined to lnzSmall at small.
	small, a, b, lnzSmall float64
}

func newUFJCAsymptotic(n float64, links stretcher, reduced bool) (ufjcAsymptotic, error) {
	u := ufjcAsymptotic{n: n, links: links, reduced: reduced}
	if reduced {
		return u, nil
	}
	x := math.Min(laplaceSmallForce, links.potential.MaxForce()/4)
	u.small = x
	lnz, g1, err := u.laplace(x)
	if err != nil {
		return u, err
	}
	_, g2, err := u.laplace(2 * x)
	if err != nil {
		return u, err
	}
	u.b = (g2 - 2*g1) / (6 * x * x * x)
	u.a = (g1 - u.b*x*x*x) / x
	u.lnzSmall = lnz
	return u, nil
}

// laplace returns ln z and gamma = d ln z/d eta for eta > 0.
func (u ufjcAsymptotic) laplace(eta float64) (lnz, gamma float64, err error) {
	sp, err := u.links.stretch(eta)
	if err != nil {
		return 0, 0, err
	}
	lnAp, dp := u.links.saddle(eta, sp, 1)
	lnz = lnAp - math.Log(2*eta)
	gamma = dp - 1/eta
	if eta >= laplaceFarForce {
		return lnz, gamma, nil
	}

	sm, err := u.links.compress(eta)
	if err != nil {
		return 0, 0, err
	}
	if sm == 0 {
		return lnz, gamma, nil
	}
	lnAm, dm := u.links.saddle(eta, sm, -1)
	r := math.Exp(lnAm - lnAp)
	if r >= 1 {
		return 0, 0, &thermo.ParameterError{Name: "saddle_ratio", Value: r}
	}
	return lnz + math.Log1p(-r), (dp-r*dm)/(1-r) - 1/eta, nil
}

func (u ufjcAsymptotic) logPartition(eta float64) (lnz, gamma float64, err error) {
	if eta >= u.small {
		return u.laplace(eta)
	}
	x := u.small
	e2, x2 := eta*eta, x*x
	lnz = u.lnzSmall - u.a*(x2-e2)/2 - u.b*(x2*x2-e2*e2)/4
	return lnz, u.a*eta + u.b*eta*e2, nil
}

func (u ufjcAsymptotic) EndToEndLengthPerLink(eta float64) (float64, error) {
	if eta < 0 {
		gamma, err := u.EndToEndLengthPerLink(-eta)
		return -gamma, err
	}
	if eta == 0 {
		return 0, nil
	}
	if u.reduced {
		s, err := u.links.stretch(eta)
		if err != nil {
			return 0, err
		}
		return numerics.Langevin(eta) + s - 1, nil
	}
	_, gamma, err := u.logPartition(eta)
	return gamma, err
}

func (u ufjcAsymptotic) GibbsFreeEnergy(eta float64) (float64, error) {
	eta = math.Abs(eta)
	if !u.reduced {
		lnz, _, err := u.logPartition(eta)
		if err != nil {
			return 0, err
		}
		return -u.n * lnz, nil
	}
	s, err := u.links.stretch(eta)
	if err != nil {
		return 0, err
	}
	p := u.links.potential
	lnz := numerics.LogSinhc(eta) + eta*(s-1) - p.Energy(s) + 0.5*math.Log(2*math.Pi/p.Kappa())
	return -u.n * lnz, nil
}

// UFJC is the freely jointed chain with links in an arbitrary potential.
// Only asymptotic relations are available; bounded potentials have no
// finite exact partition function.
type UFJC struct {
	base
	Potential Potential
	// MaxExtension is the largest gamma the asymptotic relations reach.
	MaxExtension float64
}

func kindOf(p Potential) Kind {
	switch p.(type) {
	case Harmonic:
		return KindHarmonicFJC
	case Morse:
		return KindMorseFJC
	case LennardJones:
		return KindLJFJC
	case LogSquared:
		return KindLogSqFJC
	}
	return Kind("ufjc-" + p.Name())
}

func NewUFJC(c thermo.Chain, p Potential) (*UFJC, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kappa := p.Kappa()
	if err := thermo.Positive("link_stiffness", kappa); err != nil {
		return nil, err
	}
	n := c.N()
	links := newStretcher(p)
	params := Parameters{LinkStiffness: kappa}
	if m, ok := p.(Morse); ok {
		params.LinkEnergy = m.epsilon
	}
	m := &UFJC{base: newBase(kindOf(p), c, params), Potential: p}

	full, err := newUFJCAsymptotic(n, links, false)
	if err != nil {
		return nil, err
	}
	reduced, _ := newUFJCAsymptotic(n, links, true)
	m.addIsotensional(Asymptotic, full)
	m.addIsotensional(Reduced, reduced)

	maxForce := p.MaxForce()
	guess := efjcGuess(kappa)
	solver := numerics.NewNewton().WithBounds(0, math.Inf(1))
	upper := 1 + 10/math.Sqrt(kappa)
	if !math.IsInf(maxForce, 1) {
		m.MaxExtension = numerics.Langevin(maxForce) + p.Inflection() - 1
		upper = m.MaxExtension
		solver = numerics.NewNewton().WithPower(2).WithBounds(0, maxForce)
		guess = func(gamma float64) float64 {
			return math.Min(efjcGuess(kappa)(gamma), 0.95*maxForce)
		}
	} else {
		m.MaxExtension = math.Inf(1)
	}
	limit := 0.0
	if !math.IsInf(m.MaxExtension, 1) {
		limit = m.MaxExtension
	}
	m.addIsometric(Reduced, legendreIsometric{n: n, source: reduced, guess: guess, solver: solver, limit: limit})
	m.addIsometric(Asymptotic, legendreIsometric{n: n, source: full, guess: guess, solver: solver, limit: limit})
	if err := m.distribute(upper); err != nil {
		return nil, err
	}
	return m, nil
}

// Stretch returns the link stretch s* at a nondimensional force.
func (m *UFJC) Stretch(eta float64) (float64, error) {
	return newStretcher(m.Potential).stretch(math.Abs(eta))
}
