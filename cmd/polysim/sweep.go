package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/analysis"
	"github.com/san-kum/polysim/internal/automation"
	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/experiment"
	"github.com/san-kum/polysim/internal/viz"
)

func listModels(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tISOTENSIONAL\tISOMETRIC\tPRESETS")
	for _, name := range reg.ListModels() {
		presets := config.ListPresets(name)
		cfg := config.DefaultConfig()
		if len(presets) > 0 {
			cfg = config.GetPreset(name, presets[0])
		}
		chain, err := cfg.ChainDescriptor()
		if err != nil {
			return err
		}
		m, err := reg.GetModel(name, chain, cfg.Potential)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			name,
			variantNames(m.Variants(chains.Isotensional)),
			variantNames(m.Variants(chains.Isometric)),
			strings.Join(presets, ","),
		)
	}
	return w.Flush()
}

func listObservables(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	var ens chains.Ensemble
	if len(args) == 1 {
		ens = chains.Ensemble(args[0])
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tENSEMBLE\tARGUMENT")
	for _, name := range reg.ListObservables(ens) {
		o, err := reg.GetObservable(name)
		if err != nil {
			return err
		}
		e := string(o.Ensemble)
		if e == "" {
			e = "distribution"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.Name, e, o.Argument)
	}
	return w.Flush()
}

func setupExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, slog.Default())
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}

func evalObservable(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	o := exp.Observable()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(string(o.Argument)), strings.ToUpper(o.Name))
	for _, a := range args[1:] {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("argument %q: %w", a, err)
		}
		y, err := exp.Evaluate(x)
		if err != nil {
			return fmt.Errorf("%s(%g): %w", o.Name, x, err)
		}
		fmt.Fprintf(w, "%g\t%.10g\n", x, y)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("running sweep",
		"model", cfg.Model,
		"observable", cfg.Sweep.Observable,
		"points", cfg.Sweep.Points,
	)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	summary := result.Summary()
	fmt.Printf("model: %s (N=%d)\n", result.Model, result.NumberOfLinks)
	fmt.Printf("observable: %s [%s]\n", result.Observable, result.Variant)
	fmt.Printf("points: %s in %s\n", humanize.Comma(int64(len(result.Values))), result.Elapsed)
	fmt.Printf("range: %s .. %s (mean %s)\n",
		humanize.SIWithDigits(summary.Min, 4, ""),
		humanize.SIWithDigits(summary.Max, 4, ""),
		humanize.SIWithDigits(summary.Mean, 4, ""),
	)

	if !noSave {
		id, err := saveRun(result)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", id)
	}

	if !noPlot {
		fmt.Println()
		fmt.Println(viz.PlotResult(result, 70, 14))
	}
	return nil
}

func saveRun(result *experiment.Result) (string, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	id, err := st.Save(result)
	if err != nil {
		return "", err
	}
	meta, err := st.Load(id)
	if err != nil {
		return "", err
	}

	cat, err := openCatalog()
	if err != nil {
		return "", err
	}
	defer cat.Close()
	if err := cat.Record(*meta, result.Arguments, result.Values); err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}
	return id, nil
}

// compareVariants sweeps every variant of the observable's ensemble and
// reports how far each strays from the preferred one.
func compareVariants(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}
	o := exp.Observable()
	if o.Ensemble == "" {
		return fmt.Errorf("%s has no variants to compare", o.Name)
	}

	m := exp.Model()
	preferred := m.Preferred(o.Ensemble)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var results []*experiment.Result
	var reference *experiment.Result
	for _, v := range m.Variants(o.Ensemble) {
		r, err := sweepVariant(ctx, cfg, v)
		if err != nil {
			slog.Warn("variant failed", "variant", v, "err", err)
			continue
		}
		if v == preferred {
			reference = r
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return fmt.Errorf("no variant of %s could be evaluated", o.Name)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tMIN\tMAX\tMAX REL DIFF\tELAPSED")
	for _, r := range results {
		s := r.Summary()
		diff := "-"
		if reference != nil && r != reference {
			diff = fmt.Sprintf("%.3e", maxRelativeDifference(r.Values, reference.Values))
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%s\t%s\n", r.Variant, s.Min, s.Max, diff, r.Elapsed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotCompare(results, 70, 14))
	return nil
}

func sweepVariant(ctx context.Context, base *config.Config, v chains.Variant) (*experiment.Result, error) {
	cfg := *base
	cfg.Sweep.Variant = string(v)
	exp, err := setupExperiment(&cfg)
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func maxRelativeDifference(a, b []float64) float64 {
	worst := 0.0
	for i := range min(len(a), len(b)) {
		worst = max(worst, analysis.RelativeDifference(a[i], b[i]))
	}
	return worst
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, runErr := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), slog.Default())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tMODEL\tOBSERVABLE\tVARIANT\tRUN")
	for i, sr := range results {
		id := "-"
		if !noSave {
			if id, err = saveRun(sr.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, sr.SaveAs, sr.Result.Model, sr.Result.Observable, sr.Result.Variant, id)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
