package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/polysim/internal/thermo"
)

// Convergence is an approximation error sampled at several parameter
// values and fitted to error = C * parameter^Order.
type Convergence struct {
	Parameters []float64
	Errors     []float64
	Order      float64
	// Prefactor is C.
	Prefactor float64
	// RSquared measures how well a single power law describes the errors.
	RSquared float64
}

// ConvergenceOrder evaluates errorAt at each parameter and fits the
// logarithms with a least-squares line. Errors must be positive; an
// exactly zero error cannot be placed on a log scale.
func ConvergenceOrder(params []float64, errorAt func(p float64) (float64, error)) (*Convergence, error) {
	if len(params) < 2 {
		return nil, &thermo.ParameterError{Name: "parameters", Value: float64(len(params))}
	}

	c := &Convergence{
		Parameters: params,
		Errors:     make([]float64, len(params)),
	}
	logP := make([]float64, len(params))
	logE := make([]float64, len(params))
	for i, p := range params {
		if !(p > 0) {
			return nil, &thermo.ParameterError{Name: "parameter", Value: p}
		}
		e, err := errorAt(p)
		if err != nil {
			return nil, fmt.Errorf("error at %g: %w", p, err)
		}
		e = math.Abs(e)
		if e == 0 || math.IsNaN(e) {
			return nil, &thermo.ParameterError{Name: "error", Value: e}
		}
		c.Errors[i] = e
		logP[i] = math.Log(p)
		logE[i] = math.Log(e)
	}

	alpha, beta := stat.LinearRegression(logP, logE, nil, false)
	c.Order = beta
	c.Prefactor = math.Exp(alpha)
	c.RSquared = stat.RSquared(logP, logE, nil, alpha, beta)
	return c, nil
}

// RelativeDifference is |a-b| / max(|a|, |b|), or zero when both vanish.
func RelativeDifference(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
