// Package sweep evaluates scalar observables over arrays of arguments.
//
// The models answer one state at a time; [Map] lifts any such function to
// a slice, fanning contiguous chunks out over a bounded set of workers and
// preserving the order of the arguments.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/polysim/internal/thermo"
)

// Func evaluates an observable at a single argument.
type Func func(x float64) (float64, error)

type Options struct {
	// Workers bounds the parallelism; zero uses GOMAXPROCS.
	Workers int
	// MinChunk is the smallest slice handed to one worker.
	MinChunk int
	Logger   *slog.Logger
}

// ElementError reports the first argument whose evaluation failed.
type ElementError struct {
	Index    int
	Argument float64
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("sweep element %d (x=%g): %v", e.Index, e.Argument, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// Grid returns points arguments evenly spaced over [from, to].
func Grid(from, to float64, points int) ([]float64, error) {
	if points < 2 {
		return nil, &thermo.ParameterError{Name: "points", Value: float64(points)}
	}
	if math.IsNaN(from) || math.IsNaN(to) || from == to {
		return nil, &thermo.ParameterError{Name: "to", Value: to}
	}
	return floats.Span(make([]float64, points), from, to), nil
}

// Map evaluates fn at every argument. The first failure cancels the
// remaining work and is returned as an *ElementError.
func Map(ctx context.Context, fn Func, args []float64, opts Options) ([]float64, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	n := len(args)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minChunk := opts.MinChunk
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = max(1, n/minChunk)
	}
	chunk := (n + workers - 1) / workers

	started := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				y, err := fn(args[i])
				if err == nil && math.IsNaN(y) {
					err = fmt.Errorf("%w: NaN result", thermo.ErrNonConvergence)
				}
				if err != nil {
					return &ElementError{Index: i, Argument: args[i], Err: err}
				}
				out[i] = y
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debug("sweep failed", "points", n, "workers", workers, "err", err)
		return nil, err
	}

	logger.Debug("sweep finished", "points", n, "workers", workers, "elapsed", time.Since(started))
	return out, nil
}

// Summary holds the range and mean of a sweep.
type Summary struct {
	Min, Max, Mean float64
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: floats.Sum(values) / float64(len(values)),
	}
}
