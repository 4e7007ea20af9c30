package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

// swfjcIsotensional is exact for links free to stretch uniformly over
// [1, varsigma]:
//
//	z(eta) = int_1^varsigma s^2 sinhc(eta s) ds
//	       = [eta s cosh(eta s) - sinh(eta s)]_1^varsigma / eta^3
type swfjcIsotensional struct {
	n, varsigma float64
}

// series returns z and dz/deta for varsigma*eta < 1.
func (w swfjcIsotensional) series(eta float64) (z, dz float64) {
	eta2 := eta * eta
	power := 1.0     // eta^(2k)
	factorial := 1.0 // (2k+1)!
	for k := 0; k < 40; k++ {
		moment := (math.Pow(w.varsigma, float64(2*k+3)) - 1) / float64(2*k+3)
		term := power / factorial * moment
		z += term
		if k > 0 {
			dz += float64(2*k) * term / eta
		}
		if term < 1e-17*z {
			break
		}
		power *= eta2
		factorial *= float64((2*k + 2) * (2*k + 3))
	}
	return z, dz
}

// closed returns z and dz/deta scaled by exp(-varsigma eta).
func (w swfjcIsotensional) closed(eta float64) (z, dz float64) {
	scale := w.varsigma * eta
	ch := func(a float64) float64 { return 0.5 * (math.Exp(a-scale) + math.Exp(-a-scale)) }
	sh := func(a float64) float64 { return 0.5 * (math.Exp(a-scale) - math.Exp(-a-scale)) }
	a := func(s float64) float64 { return eta*s*ch(eta*s) - sh(eta*s) }
	b := func(s float64) float64 {
		x := eta * s
		return x*x*sh(x) - 3*x*ch(x) + 3*sh(x)
	}
	eta3 := eta * eta * eta
	z = (a(w.varsigma) - a(1)) / eta3
	dz = (b(w.varsigma) - b(1)) / (eta3 * eta)
	return z, dz
}

func (w swfjcIsotensional) EndToEndLengthPerLink(eta float64) (float64, error) {
	if eta < 0 {
		gamma, err := w.EndToEndLengthPerLink(-eta)
		return -gamma, err
	}
	if eta == 0 {
		return 0, nil
	}
	if w.varsigma*eta < 1 {
		z, dz := w.series(eta)
		return dz / z, nil
	}
	z, dz := w.closed(eta)
	return dz / z, nil
}

func (w swfjcIsotensional) GibbsFreeEnergy(eta float64) (float64, error) {
	eta = math.Abs(eta)
	if w.varsigma*eta < 1 {
		z, _ := w.series(eta)
		return -w.n * math.Log(z), nil
	}
	z, _ := w.closed(eta)
	return -w.n * (math.Log(z) + w.varsigma*eta), nil
}

// swfjcAsymptotic expands z in the well width delta = varsigma - 1,
//
//	z = delta sinhc(eta) [1 + (delta/2)(1 + eta coth eta) + O(delta^2)]
//
// Reduced keeps the leading term only.
type swfjcAsymptotic struct {
	n, delta float64
	reduced  bool
}

func (w swfjcAsymptotic) EndToEndLengthPerLink(eta float64) (float64, error) {
	gamma := numerics.Langevin(eta)
	if w.reduced {
		return gamma, nil
	}
	xc, dxc := xCothX(eta)
	return gamma + 0.5*w.delta*dxc/(1+0.5*w.delta*(1+xc)), nil
}

func (w swfjcAsymptotic) GibbsFreeEnergy(eta float64) (float64, error) {
	lnz := math.Log(w.delta) + numerics.LogSinhc(eta)
	if !w.reduced {
		xc, _ := xCothX(eta)
		lnz += math.Log1p(0.5 * w.delta * (1 + xc))
	}
	return -w.n * lnz, nil
}

// SWFJC is the square-well freely jointed chain. Links take any length in
// [l, l+w] with equal weight; Varsigma is (l+w)/l.
type SWFJC struct {
	base
	Varsigma float64
}

func NewSWFJC(c thermo.Chain, wellWidth float64) (*SWFJC, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := thermo.Positive("well_width", wellWidth); err != nil {
		return nil, err
	}
	n := c.N()
	varsigma := 1 + wellWidth
	m := &SWFJC{base: newBase(KindSWFJC, c, Parameters{WellWidth: wellWidth}), Varsigma: varsigma}
	exact := swfjcIsotensional{n: n, varsigma: varsigma}
	m.addIsotensional(Exact, exact)
	m.addIsotensional(Asymptotic, swfjcAsymptotic{n: n, delta: wellWidth})
	m.addIsotensional(Reduced, swfjcAsymptotic{n: n, delta: wellWidth, reduced: true})
	m.addIsometric(Legendre, legendreIsometric{
		n:      n,
		source: exact,
		guess: func(gamma float64) float64 {
			eta, err := numerics.InverseLangevin(math.Min(gamma/varsigma, 1-1e-6))
			if err != nil {
				return 1
			}
			return eta
		},
		solver: numerics.NewNewton().WithBounds(0, math.Inf(1)),
		limit:  varsigma,
	})
	if err := m.distribute(varsigma); err != nil {
		return nil, err
	}
	return m, nil
}
