package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Objective scores one combination of parameter values; lower is better.
type Objective func(params map[string]float64) (float64, error)

// GridSearch tries every combination of the candidate values of each
// parameter.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Combinations is the number of objective evaluations a search makes.
func (g *GridSearch) Combinations() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best parameters and their score. Combinations the
// objective rejects are skipped; the search fails only when none succeed.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d parameters for %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{best: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, s); err != nil {
		return nil, 0, err
	}
	if s.bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no combination evaluated: %w", errors.Join(s.failures...))
	}
	return s.bestParams, s.best, nil
}

type search struct {
	best       float64
	bestParams map[string]float64
	failures   []error
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	s *search,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(current)
		if err != nil {
			// keep the first few so an all-failed search can say why
			if len(s.failures) < 3 {
				s.failures = append(s.failures, fmt.Errorf("%s: %w", describe(current), err))
			}
			return nil
		}
		if val < s.best {
			s.best = val
			s.bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				s.bestParams[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, s); err != nil {
			return err
		}
	}
	return nil
}

func describe(params map[string]float64) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
