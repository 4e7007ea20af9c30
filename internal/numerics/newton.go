package numerics

import (
	"fmt"
	"math"

	"github.com/san-kum/polysim/internal/thermo"
)

// ConvergenceError reports a Newton-Raphson solve that ran out of iterations
// or hit a vanishing derivative.
type ConvergenceError struct {
	Iterations int
	Residual   float64
	X          float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("newton: no convergence after %d iterations (x=%g, residual=%g)",
		e.Iterations, e.X, e.Residual)
}

func (e *ConvergenceError) Unwrap() error {
	return thermo.ErrNonConvergence
}

// Newton is a damped Newton-Raphson solver. Each step is the plain Newton
// step divided by Power; Power > 1 trades speed for robustness near stiff
// or singular regions. Iterates leaving [Min, Max] are pulled back halfway
// towards the violated bound.
type Newton struct {
	Tolerance     float64
	MaxIterations int
	Power         int
	Min, Max      float64
}

func NewNewton() *Newton {
	return &Newton{
		Tolerance:     thermo.Tolerance,
		MaxIterations: thermo.MaxIterations,
		Power:         1,
		Min:           math.Inf(-1),
		Max:           math.Inf(1),
	}
}

// WithPower returns a copy using the given damping exponent.
func (n Newton) WithPower(p int) *Newton {
	n.Power = p
	return &n
}

// WithBounds returns a copy that keeps iterates inside (lo, hi).
func (n Newton) WithBounds(lo, hi float64) *Newton {
	n.Min, n.Max = lo, hi
	return &n
}

// Solve finds x with |f(x)| < Tolerance starting from guess.
func (n *Newton) Solve(f, df func(float64) float64, guess float64) (float64, error) {
	return n.solve(f, df, guess, n.Tolerance)
}

func (n *Newton) solve(f, df func(float64) float64, guess, tolerance float64) (float64, error) {
	power := float64(n.Power)
	if power < 1 {
		power = 1
	}
	maxIter := n.MaxIterations
	if n.Power > 1 {
		maxIter *= n.Power
	}

	x := guess
	residual := f(x)
	for i := 0; i < maxIter; i++ {
		if math.Abs(residual) < tolerance {
			return x, nil
		}
		slope := df(x)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return x, &ConvergenceError{Iterations: i, Residual: residual, X: x}
		}

		next := x - residual/slope/power
		if next <= n.Min {
			next = 0.5 * (x + n.Min)
		} else if next >= n.Max {
			next = 0.5 * (x + n.Max)
		}
		x = next

		residual = f(x)
		if math.IsNaN(residual) {
			return x, &ConvergenceError{Iterations: i + 1, Residual: residual, X: x}
		}
	}
	if math.Abs(residual) < tolerance {
		return x, nil
	}
	return x, &ConvergenceError{Iterations: maxIter, Residual: residual, X: x}
}

// Invert solves fn(x) = target. The tolerance is relative once |target|
// exceeds one, since steep relations cannot resolve an absolute residual
// at large targets.
func (n *Newton) Invert(fn, dfn func(float64) float64, target, guess float64) (float64, error) {
	tolerance := n.Tolerance * math.Max(1, math.Abs(target))
	return n.solve(func(x float64) float64 { return fn(x) - target }, dfn, guess, tolerance)
}
