package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/experiment"
	"github.com/san-kum/polysim/internal/thermo"
)

// ArgumentKey names the observable's argument in a grid; every other
// name is a potential parameter.
const ArgumentKey = "argument"

// Discrepancy is the grid point where two variants disagree the most.
type Discrepancy struct {
	Point map[string]float64
	// Relative is |a-b| / max(|a|, |b|) at Point.
	Relative  float64
	Evaluated int
}

// WorstDiscrepancy searches the grid for the largest relative
// difference between cfg's variant of its observable and reference.
// The grid must include ArgumentKey.
func WorstDiscrepancy(ctx context.Context, cfg *config.Config, reg *experiment.Registry, reference chains.Variant, g *GridSearch) (*Discrepancy, error) {
	hasArgument := false
	for _, name := range g.paramNames {
		hasArgument = hasArgument || name == ArgumentKey
	}
	if !hasArgument {
		return nil, fmt.Errorf("%w: grid needs %q", thermo.ErrInvalidParameter, ArgumentKey)
	}

	quiet := slog.New(slog.DiscardHandler)
	evaluated := 0
	objective := func(point map[string]float64) (float64, error) {
		c := *cfg
		for name, v := range point {
			if name == ArgumentKey {
				continue
			}
			if err := c.Potential.Set(name, v); err != nil {
				return 0, err
			}
		}
		x := point[ArgumentKey]

		a, err := evaluate(&c, reg, quiet, x)
		if err != nil {
			return 0, err
		}
		c.Sweep.Variant = string(reference)
		b, err := evaluate(&c, reg, quiet, x)
		if err != nil {
			return 0, err
		}
		evaluated++

		scale := math.Max(math.Abs(a), math.Abs(b))
		if scale == 0 {
			return 0, nil
		}
		// the search minimizes
		return -math.Abs(a-b) / scale, nil
	}

	worst, score, err := g.Search(ctx, objective)
	if err != nil {
		return nil, err
	}
	return &Discrepancy{Point: worst, Relative: -score, Evaluated: evaluated}, nil
}

func evaluate(cfg *config.Config, reg *experiment.Registry, logger *slog.Logger, x float64) (float64, error) {
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(reg); err != nil {
		return 0, err
	}
	return exp.Evaluate(x)
}
