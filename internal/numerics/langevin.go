package numerics

import (
	"math"

	"github.com/san-kum/polysim/internal/thermo"
)

// Langevin returns L(x) = coth(x) - 1/x.
func Langevin(x float64) float64 {
	if math.Abs(x) < 1e-2 {
		x2 := x * x
		return x * (1.0/3 - x2*(1.0/45-x2*(2.0/945-x2/4725)))
	}
	return 1/math.Tanh(x) - 1/x
}

// LangevinDerivative returns L'(x) = 1/x^2 - 1/sinh^2(x).
func LangevinDerivative(x float64) float64 {
	if math.Abs(x) < 1e-2 {
		x2 := x * x
		return 1.0/3 - x2*(1.0/15-x2*(2.0/189))
	}
	s := math.Sinh(x)
	return 1/(x*x) - 1/(s*s)
}

// InverseLangevin returns x with L(x) = y for |y| < 1.
func InverseLangevin(y float64) (float64, error) {
	if math.Abs(y) >= 1 || math.IsNaN(y) {
		return 0, &thermo.RangeError{Quantity: "langevin argument", Value: y, Limit: 1}
	}
	if y < 0 {
		x, err := InverseLangevin(-y)
		return -x, err
	}
	if y < 1e-8 {
		return 3 * y, nil
	}

	// Cohen's Pade approximant is accurate to a few percent everywhere.
	guess := y * (3 - y*y) / (1 - y*y)
	solver := NewNewton().WithBounds(0, math.Inf(1))
	solver.Tolerance = 1e-14
	return solver.Invert(Langevin, LangevinDerivative, y, guess)
}

// LogSinhc returns ln(sinh(x)/x) without overflow.
func LogSinhc(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1e-2:
		x2 := x * x
		return x2 * (1.0/6 - x2*(1.0/180-x2/2835))
	case x < 20:
		return math.Log(math.Sinh(x) / x)
	default:
		return x - math.Ln2 - math.Log(x) + math.Log1p(-math.Exp(-2*x))
	}
}

// Coth returns the hyperbolic cotangent.
func Coth(x float64) float64 {
	return 1 / math.Tanh(x)
}
