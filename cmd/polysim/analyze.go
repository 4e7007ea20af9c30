package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/analysis"
	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/experiment"
	"github.com/san-kum/polysim/internal/optim"
	"github.com/san-kum/polysim/internal/sweep"
	"github.com/san-kum/polysim/internal/thermo"
)

var (
	checkForces     = []float64{0.5, 1, 2, 5}
	checkExtensions = []float64{0.1, 0.3, 0.5, 0.7}
)

// checkModel compares every variant's mechanical response with the
// slope of its own free energy, then maps forces across ensembles.
func checkModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tVARIANT\tARG\tEXPECTED\tMEASURED\tRESIDUAL")
	row := func(check string, v chains.Variant, c analysis.Consistency) {
		fmt.Fprintf(w, "%s\t%s\t%g\t%.8g\t%.8g\t%.2e\n", check, v, c.Argument, c.Expected, c.Measured, c.Residual)
	}

	for _, v := range m.Variants(chains.Isotensional) {
		view, err := m.Isotensional(v)
		if err != nil {
			return err
		}
		for _, eta := range checkForces {
			c, err := analysis.CheckIsotensional(view, eta)
			if err != nil {
				slog.Warn("check failed", "ensemble", chains.Isotensional, "variant", v, "eta", eta, "err", err)
				continue
			}
			row("isotensional", v, c)
		}
	}
	for _, v := range m.Variants(chains.Isometric) {
		view, err := m.Isometric(v)
		if err != nil {
			return err
		}
		for _, gamma := range checkExtensions {
			c, err := analysis.CheckIsometric(view, gamma)
			if err != nil {
				slog.Warn("check failed", "ensemble", chains.Isometric, "variant", v, "gamma", gamma, "err", err)
				continue
			}
			row("isometric", v, c)
		}
	}

	tension, err := m.Isotensional(chains.Auto)
	if err != nil {
		return err
	}
	metric, err := m.Isometric(chains.Auto)
	if err != nil {
		return err
	}
	for _, eta := range checkForces {
		c, err := analysis.CheckDuality(tension, metric, eta)
		if err != nil {
			slog.Warn("duality failed", "eta", eta, "err", err)
			continue
		}
		row("duality", m.Preferred(chains.Isometric), c)
	}
	return w.Flush()
}

// convergeModel measures how the error of an approximate variant
// shrinks as a potential parameter grows.
func convergeModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if cfg.Sweep.Variant == "" {
		return fmt.Errorf("--variant is required")
	}
	param := args[1]
	values, err := parseFloats(args[2:])
	if err != nil {
		return err
	}
	chain, err := cfg.ChainDescriptor()
	if err != nil {
		return err
	}

	ens := chains.Ensemble(cfg.Sweep.Ensemble)
	if ens == "" {
		ens = chains.Isotensional
	}
	approx := chains.Variant(cfg.Sweep.Variant)
	ref := chains.Variant(reference)

	errorAt := func(p float64) (float64, error) {
		m, err := buildWith(cfg, chain, param, p)
		if err != nil {
			return 0, err
		}
		if ref == "" {
			ref = m.Preferred(ens)
		}
		a, b, err := responses(m, ens, approx, ref, at)
		if err != nil {
			return 0, err
		}
		return analysis.RelativeDifference(a, b), nil
	}

	c, err := analysis.ConvergenceOrder(values, errorAt)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRELATIVE ERROR\n", param)
	for i, p := range c.Parameters {
		fmt.Fprintf(w, "%g\t%.4e\n", p, c.Errors[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%s vs %s: error ~ %.3g * %s^%.3f (R^2 = %.4f)\n", approx, ref, c.Prefactor, param, c.Order, c.RSquared)
	return nil
}

func buildWith(cfg *config.Config, chain thermo.Chain, param string, value float64) (chains.Model, error) {
	p := cfg.Potential
	if err := p.Set(param, value); err != nil {
		return nil, err
	}
	return chains.New(cfg.Kind(), chain, p)
}

// responses evaluates the mechanical response of two variants at x:
// extension per link for a force, or force for an extension.
func responses(m chains.Model, ens chains.Ensemble, a, b chains.Variant, x float64) (float64, float64, error) {
	if ens == chains.Isometric {
		va, err := m.Isometric(a)
		if err != nil {
			return 0, 0, err
		}
		vb, err := m.Isometric(b)
		if err != nil {
			return 0, 0, err
		}
		ya, err := va.NondimensionalForce(x)
		if err != nil {
			return 0, 0, err
		}
		yb, err := vb.NondimensionalForce(x)
		return ya, yb, err
	}

	va, err := m.Isotensional(a)
	if err != nil {
		return 0, 0, err
	}
	vb, err := m.Isotensional(b)
	if err != nil {
		return 0, 0, err
	}
	ya, err := va.NondimensionalEndToEndLengthPerLink(x)
	if err != nil {
		return 0, 0, err
	}
	yb, err := vb.NondimensionalEndToEndLengthPerLink(x)
	return ya, yb, err
}

func scanParameter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	chain, err := cfg.ChainDescriptor()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	param := args[1]
	measure := analysis.ExtensionMeasure(chains.Variant(cfg.Sweep.Variant), forces...)
	data, err := analysis.ParameterScan(ctx, cfg.Kind(), chain, cfg.Potential, param,
		cfg.Sweep.From, cfg.Sweep.To, scanSteps, measure)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, param)
	for _, eta := range forces {
		fmt.Fprintf(w, "\tgamma(eta=%g)", eta)
	}
	fmt.Fprintln(w)
	for _, p := range data {
		fmt.Fprintf(w, "%g", p.Param)
		for _, v := range p.Values {
			fmt.Fprintf(w, "\t%.6f", v)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(analysis.ScanToASCII(data, 60, 15))
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

// discrepancyModel grid-searches arguments and potential parameters for
// the point where the configured variant strays furthest from a reference.
func discrepancyModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(grids))
	ranges := make([][]float64, 0, len(grids))
	for _, arg := range grids {
		name, values, err := parseGrid(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	search := optim.NewGridSearch(names, ranges)

	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	o, err := reg.GetObservable(cfg.Sweep.Observable)
	if err != nil {
		return err
	}
	if o.Ensemble == "" {
		return fmt.Errorf("%s has no variants", o.Name)
	}
	ref := chains.Variant(reference)
	if ref == "" {
		ref = m.Preferred(o.Ensemble)
	}
	if cfg.Sweep.Variant == "" || chains.Variant(cfg.Sweep.Variant) == ref {
		return fmt.Errorf("--variant must name a variant other than %s", ref)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("searching", "model", cfg.Model, "observable", o.Name, "combinations", search.Combinations())
	d, err := optim.WorstDiscrepancy(ctx, cfg, reg, ref, search)
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s on %s\n", cfg.Sweep.Variant, ref, o.Name)
	for _, name := range names {
		label := name
		if name == optim.ArgumentKey {
			label = string(o.Argument)
		}
		fmt.Printf("  %s = %g\n", label, d.Point[name])
	}
	fmt.Printf("worst relative difference: %.4e (%d points)\n", d.Relative, d.Evaluated)
	return nil
}

// parseGrid reads name=from:to:steps.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("grid %q: want name=from:to:steps", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("grid %q: want name=from:to:steps", arg)
	}
	bounds, err := parseFloats(parts[:2])
	if err != nil {
		return "", nil, err
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", arg, err)
	}
	values, err := sweep.Grid(bounds[0], bounds[1], steps)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", arg, err)
	}
	return name, values, nil
}
