package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// efjcPoints is the midpoint resolution of the link-stretch integrals.
const efjcPoints = 4 * thermo.Points

// efjcIsotensional integrates the single-link partition function
//
//	z(eta) = int s^2 sinhc(eta s) exp(-kappa (s-1)^2 / 2) ds
//
// over a window around the dominant stretch. Integrands are scaled by
// exp(-eta - eta^2/(2 kappa)), the maximum of the exponent.
type efjcIsotensional struct {
	n, kappa float64
}

func scaledSinhc(x, logWeight float64) float64 {
	switch {
	case x < 1e-4:
		return (1 + x*x/6) * math.Exp(logWeight)
	case x < 20:
		return math.Sinh(x) / x * math.Exp(logWeight)
	default:
		return (math.Exp(x+logWeight) - math.Exp(-x+logWeight)) / (2 * x)
	}
}

func (e efjcIsotensional) window(eta float64) (lo, hi float64) {
	center := 1 + eta/e.kappa
	sigma := 1 / math.Sqrt(e.kappa)
	lo = center - 10*sigma
	if eta < 20 {
		lo -= 2 * eta / e.kappa
	}
	return math.Max(0, lo), center + 10*sigma
}

// integrals returns the scaled z and dz/deta together with the scale.
func (e efjcIsotensional) integrals(eta float64) (z, dz, shift float64) {
	shift = eta + eta*eta/(2*e.kappa)
	lo, hi := e.window(eta)
	weight := func(s float64) float64 {
		return -0.5*e.kappa*(s-1)*(s-1) - shift
	}
	z = numerics.Midpoint(func(s float64) float64 {
		return s * s * scaledSinhc(eta*s, weight(s))
	}, lo, hi, efjcPoints)
	dz = numerics.Midpoint(func(s float64) float64 {
		return s * s * s * scaledSinhc(eta*s, weight(s)) * numerics.Langevin(eta*s)
	}, lo, hi, efjcPoints)
	return z, dz, shift
}

func (e efjcIsotensional) EndToEndLengthPerLink(eta float64) (float64, error) {
	if eta < 0 {
		gamma, err := e.EndToEndLengthPerLink(-eta)
		return -gamma, err
	}
	z, dz, _ := e.integrals(eta)
	if !(z > 0) {
		return 0, &thermo.RangeError{Quantity: "eta", Value: eta, Limit: math.Inf(1)}
	}
	return dz / z, nil
}

func (e efjcIsotensional) GibbsFreeEnergy(eta float64) (float64, error) {
	eta = math.Abs(eta)
	z, _, shift := e.integrals(eta)
	if !(z > 0) {
		return 0, &thermo.RangeError{Quantity: "eta", Value: eta, Limit: math.Inf(1)}
	}
	return -e.n * (math.Log(z) + shift), nil
}

// xCothX returns x coth(x) and its derivative.
func xCothX(x float64) (value, deriv float64) {
	if math.Abs(x) < 1e-4 {
		return 1 + x*x/3, 2 * x / 3
	}
	s := math.Sinh(x)
	c := numerics.Coth(x)
	if math.Abs(x) > 350 {
		return x * c, c
	}
	return x * c, c - x/(s*s)
}

// efjcAsymptotic is the Laplace evaluation of z for stiff links,
//
//	z = sqrt(2 pi/kappa) exp(eta^2/(2 kappa)) sinhc(eta) (1 + coth(eta) eta/kappa)
//
// Reduced drops the last factor, which matters at order 1/kappa.
type efjcAsymptotic struct {
	n, kappa float64
	reduced  bool
}

func (e efjcAsymptotic) EndToEndLengthPerLink(eta float64) (float64, error) {
	gamma := numerics.Langevin(eta) + eta/e.kappa
	if e.reduced {
		return gamma, nil
	}
	xc, dxc := xCothX(eta)
	// d/deta ln(1 + x coth x / kappa) with x = eta
	return gamma + (dxc/e.kappa)/(1+xc/e.kappa), nil
}

func (e efjcAsymptotic) GibbsFreeEnergy(eta float64) (float64, error) {
	lnz := numerics.LogSinhc(eta) + eta*eta/(2*e.kappa) + 0.5*math.Log(2*math.Pi/e.kappa)
	if !e.reduced {
		xc, _ := xCothX(eta)
		lnz += math.Log1p(xc / e.kappa)
	}
	return -e.n * lnz, nil
}

// efjcGuess bounds the inverse of the reduced relation L(eta) + eta/kappa
// from above, where Newton on the concave response converges monotonically.
func efjcGuess(kappa float64) func(float64) float64 {
	return func(gamma float64) float64 {
		guess := kappa * gamma
		if gamma < 1 {
			if eta, err := numerics.InverseLangevin(gamma); err == nil && eta < guess {
				guess = eta
			}
		}
		return guess
	}
}

// EFJC is the extensible freely jointed chain with harmonic links of
// nondimensional stiffness kappa.
type EFJC struct {
	base
	Kappa float64
}

func NewEFJC(c thermo.Chain, kappa float64) (*EFJC, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := thermo.Positive("link_stiffness", kappa); err != nil {
		return nil, err
	}
	n := c.N()
	m := &EFJC{base: newBase(KindEFJC, c, Parameters{LinkStiffness: kappa}), Kappa: kappa}
	exact := efjcIsotensional{n: n, kappa: kappa}
	m.addIsotensional(Exact, exact)
	m.addIsotensional(Asymptotic, efjcAsymptotic{n: n, kappa: kappa})
	m.addIsotensional(Reduced, efjcAsymptotic{n: n, kappa: kappa, reduced: true})
	m.addIsometric(Legendre, legendreIsometric{
		n:      n,
		source: exact,
		guess:  efjcGuess(kappa),
		solver: numerics.NewNewton().WithBounds(0, math.Inf(1)),
	})
	m.addIsometric(Asymptotic, legendreIsometric{
		n:      n,
		source: efjcAsymptotic{n: n, kappa: kappa},
		guess:  efjcGuess(kappa),
		solver: numerics.NewNewton().WithBounds(0, math.Inf(1)),
	})
	if err := m.distribute(1 + 10/math.Sqrt(kappa)); err != nil {
		return nil, err
	}
	return m, nil
}
