package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/polysim/internal/catalog"
	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/storage"
	"github.com/san-kum/polysim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	// chain and potential overrides
	links       int
	linkLength  float64
	temperature float64
	stiffness   float64
	wellWidth   float64
	persistence float64
	linkEnergy  float64

	// sweep overrides
	observable string
	ensemble   string
	variant    string
	from       float64
	to         float64
	points     int
	workers    int

	noPlot    bool
	noSave    bool
	svgPath   string
	filterBy  string
	limit     int
	at        float64
	reference string
	theme     string
	forces    []float64
	scanSteps int
	grids     []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "polysim",
		Short: "single-chain polymer thermodynamics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, "")
			if err != nil {
				return err
			}
			return viz.RunExplorer(cfg, theme)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".polysim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	addConfigFlags(rootCmd)
	addThemeFlag(rootCmd)

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list chain models and their variants",
		RunE:  listModels,
	}

	observablesCmd := &cobra.Command{
		Use:   "observables [ensemble]",
		Short: "list observables",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listObservables,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				c := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s N=%-4d %s over [%g, %g]\n", p, c.Chain.NumberOfLinks, c.Sweep.Observable, c.Sweep.From, c.Sweep.To)
			}
			return nil
		},
	}

	evalCmd := &cobra.Command{
		Use:   "eval [model] [argument...]",
		Short: "evaluate an observable at given arguments",
		Args:  cobra.MinimumNArgs(2),
		RunE:  evalObservable,
	}
	addConfigFlags(evalCmd)

	sweepCmd := &cobra.Command{
		Use:     "sweep [model]",
		Aliases: []string{"run"},
		Short:   "sweep an observable and store the run",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the ascii plot")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "sweep every variant of an observable",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareVariants,
	}
	addConfigFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&filterBy, "model", "", "only runs of this model")
	listCmd.Flags().StringVar(&observable, "observable", "", "only runs of this observable")
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of runs")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the curve as svg")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [path]",
		Short: "export run data to CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export run data to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run catalog from the data directory",
		RunE:  reindexRuns,
	}

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "check thermodynamic consistency of every variant",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkModel,
	}
	addConfigFlags(checkCmd)

	convergeCmd := &cobra.Command{
		Use:   "converge [model] [parameter] [values...]",
		Short: "estimate the error order of an approximate variant",
		Args:  cobra.MinimumNArgs(4),
		RunE:  convergeModel,
	}
	addConfigFlags(convergeCmd)
	convergeCmd.Flags().Float64Var(&at, "at", 1, "force, or extension per link when isometric, to compare at")
	convergeCmd.Flags().StringVar(&reference, "reference", "", "reference variant (default: preferred)")

	scanCmd := &cobra.Command{
		Use:   "scan [model] [parameter]",
		Short: "scan a potential parameter",
		Args:  cobra.ExactArgs(2),
		RunE:  scanParameter,
	}
	addConfigFlags(scanCmd)
	scanCmd.Flags().Float64SliceVar(&forces, "at", []float64{1, 5, 20}, "nondimensional forces to sample")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 10, "number of parameter values")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every sweep of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	discrepancyCmd := &cobra.Command{
		Use:   "discrepancy [model]",
		Short: "find where a variant strays furthest from a reference",
		Args:  cobra.ExactArgs(1),
		RunE:  discrepancyModel,
	}
	addConfigFlags(discrepancyCmd)
	discrepancyCmd.Flags().StringArrayVar(&grids, "grid", nil, "grid as name=from:to:steps; name is argument or a potential parameter (repeatable)")
	discrepancyCmd.Flags().StringVar(&reference, "reference", "", "reference variant (default: preferred)")
	_ = discrepancyCmd.MarkFlagRequired("grid")

	exploreCmd := &cobra.Command{
		Use:   "explore [model]",
		Short: "interactive model explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, firstArg(args))
			if err != nil {
				return err
			}
			return viz.RunExplorer(cfg, theme)
		},
	}
	addConfigFlags(exploreCmd)
	addThemeFlag(exploreCmd)

	rootCmd.AddCommand(modelsCmd, observablesCmd, presetsCmd, evalCmd, sweepCmd, compareCmd,
		batchCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, deleteCmd, reindexCmd,
		checkCmd, convergeCmd, scanCmd, discrepancyCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05",
		}),
	))
	return nil
}

func addThemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeLab.Name,
		"explorer theme ("+strings.Join(viz.ThemeNames(), ", ")+"), t cycles it")
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&links, "links", "n", config.DefaultLinks, "number of links")
	f.Float64Var(&linkLength, "link-length", config.DefaultLinkLength, "link length (m)")
	f.Float64VarP(&temperature, "temperature", "T", config.DefaultTemperature, "temperature (K)")
	f.Float64Var(&stiffness, "stiffness", 0, "nondimensional link stiffness k l^2/kT")
	f.Float64Var(&wellWidth, "well-width", 0, "square-well width w/l")
	f.Float64Var(&persistence, "persistence", 0, "persistence length lp/l")
	f.Float64Var(&linkEnergy, "link-energy", 0, "morse link energy epsilon/kT")
	f.StringVarP(&observable, "observable", "o", "", "observable name")
	f.StringVarP(&ensemble, "ensemble", "e", "", "isotensional or isometric")
	f.StringVarP(&variant, "variant", "v", "", "model variant (exact, asymptotic, reduced, legendre)")
	f.Float64Var(&from, "from", 0, "first argument of the sweep")
	f.Float64Var(&to, "to", 0, "last argument of the sweep")
	f.IntVar(&points, "points", config.DefaultPoints, "number of sweep points")
	f.IntVarP(&workers, "workers", "w", 0, "parallel workers (0 uses every cpu)")
}

// loadConfig applies the preset, then the config file, then any flag
// the user set explicitly. A model named without --preset starts from
// its first preset.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if model != "" {
		cfg.Model = model
	}

	name := preset
	if name == "" && model != "" {
		// models with a potential need parameters to be usable at all
		if names := config.ListPresets(model); len(names) > 0 {
			name = names[0]
		}
	}
	if name != "" {
		p := config.GetPreset(cfg.Model, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if model != "" {
			cfg.Model = model
		}
	}

	flags := cmd.Flags()
	changed := func(name string) bool { return flags.Lookup(name) != nil && flags.Changed(name) }
	if changed("links") {
		cfg.Chain.NumberOfLinks = links
	}
	if changed("link-length") {
		cfg.Chain.LinkLength = linkLength
	}
	if changed("temperature") {
		cfg.Temperature = temperature
	}
	if changed("stiffness") {
		cfg.Potential.LinkStiffness = stiffness
	}
	if changed("well-width") {
		cfg.Potential.WellWidth = wellWidth
	}
	if changed("persistence") {
		cfg.Potential.PersistenceLength = persistence
	}
	if changed("link-energy") {
		cfg.Potential.LinkEnergy = linkEnergy
	}
	if changed("observable") {
		cfg.Sweep.Observable = observable
	}
	if changed("ensemble") {
		cfg.Sweep.Ensemble = ensemble
	}
	if changed("variant") {
		cfg.Sweep.Variant = variant
	}
	if changed("from") {
		cfg.Sweep.From = from
	}
	if changed("to") {
		cfg.Sweep.To = to
	}
	if changed("points") {
		cfg.Sweep.Points = points
	}
	if changed("workers") {
		cfg.Sweep.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config resolved", "model", cfg.Model, "links", cfg.Chain.NumberOfLinks, "observable", cfg.Sweep.Observable)
	return cfg, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir).WithLogger(slog.Default())
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func openCatalog() (*catalog.Catalog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return catalog.Open(filepath.Join(dataDir, "catalog.db"))
}

func variantNames(vs []chains.Variant) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = string(v)
	}
	return strings.Join(names, ",")
}
