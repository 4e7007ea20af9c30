package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/sweep"
	"github.com/san-kum/polysim/internal/thermo"
)

// ScanPoint holds the measured values for one parameter value.
type ScanPoint struct {
	Param  float64
	Values []float64
}

// Measure evaluates whatever is of interest on one model.
type Measure func(m chains.Model) ([]float64, error)

// ParameterScan sweeps one potential parameter of a model and measures
// the model built at each value.
//
// Parameters:
// - kind, chain, base: the model being varied
// - param: yaml name of the parameter to sweep (e.g. link_stiffness)
// - from, to: range to sweep
// - steps: number of parameter values to test
func ParameterScan(
	ctx context.Context,
	kind chains.Kind,
	chain thermo.Chain,
	base chains.Parameters,
	param string,
	from, to float64,
	steps int,
	measure Measure,
) ([]ScanPoint, error) {
	values, err := sweep.Grid(from, to, steps)
	if err != nil {
		return nil, err
	}

	results := make([]ScanPoint, 0, steps)
	for _, v := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := base
		if err := p.Set(param, v); err != nil {
			return nil, err
		}
		m, err := chains.New(kind, chain, p)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		measured, err := measure(m)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", param, v, err)
		}

		results = append(results, ScanPoint{Param: v, Values: measured})
	}
	return results, nil
}

// ExtensionMeasure returns the isotensional extension per link at each force.
func ExtensionMeasure(v chains.Variant, etas ...float64) Measure {
	return func(m chains.Model) ([]float64, error) {
		view, err := m.Isotensional(v)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(etas))
		for i, eta := range etas {
			if out[i], err = view.NondimensionalEndToEndLengthPerLink(eta); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

// ScanToASCII converts scan data to ASCII art
func ScanToASCII(data []ScanPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
