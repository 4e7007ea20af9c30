package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/sweep"
	"github.com/san-kum/polysim/internal/thermo"
)

// Result is one observable swept over a grid of arguments.
type Result struct {
	Model         string            `json:"model"`
	Observable    string            `json:"observable"`
	Ensemble      string            `json:"ensemble"`
	Variant       string            `json:"variant"`
	Argument      Argument          `json:"argument"`
	NumberOfLinks int               `json:"number_of_links"`
	LinkLength    float64           `json:"link_length"`
	Parameters    chains.Parameters `json:"parameters"`
	Temperature   float64           `json:"temperature"`
	Arguments     []float64         `json:"arguments"`
	Values        []float64         `json:"values"`
	Elapsed       time.Duration     `json:"elapsed"`
}

func (r *Result) Summary() sweep.Summary {
	return sweep.Summarize(r.Values)
}

type Experiment struct {
	cfg        config.Config
	logger     *slog.Logger
	model      chains.Model
	observable Observable
	eval       sweep.Func
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: *cfg, logger: logger}
}

// Setup builds the model and binds the observable to the configured
// variant, so a missing variant fails before any evaluation.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	chain, err := e.cfg.ChainDescriptor()
	if err != nil {
		return err
	}
	model, err := r.GetModel(e.cfg.Model, chain, e.cfg.Potential)
	if err != nil {
		return err
	}
	o, err := r.GetObservable(e.cfg.Sweep.Observable)
	if err != nil {
		return err
	}
	if want := chains.Ensemble(e.cfg.Sweep.Ensemble); want != "" && o.Ensemble != "" && want != o.Ensemble {
		return fmt.Errorf("%w: %s is %s, not %s", thermo.ErrInvalidParameter, o.Name, o.Ensemble, want)
	}
	eval, err := o.Bind(model, chains.Variant(e.cfg.Sweep.Variant), e.cfg.Temperature)
	if err != nil {
		return err
	}

	e.model, e.observable, e.eval = model, o, eval
	e.logger.Debug("experiment ready",
		"model", e.cfg.Model,
		"links", e.cfg.Chain.NumberOfLinks,
		"observable", o.Name,
		"variant", e.variantName(),
	)
	return nil
}

// Evaluate computes the observable at a single argument.
func (e *Experiment) Evaluate(x float64) (float64, error) {
	if e.eval == nil {
		return 0, fmt.Errorf("experiment not setup")
	}
	return e.eval(x)
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.eval == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	args, err := sweep.Grid(e.cfg.Sweep.From, e.cfg.Sweep.To, e.cfg.Sweep.Points)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	values, err := sweep.Map(ctx, e.eval, args, sweep.Options{
		Workers: e.cfg.Sweep.Workers,
		Logger:  e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", e.cfg.Model, e.observable.Name, err)
	}

	return &Result{
		Model:         e.cfg.Model,
		Observable:    e.observable.Name,
		Ensemble:      string(e.observable.Ensemble),
		Variant:       e.variantName(),
		Argument:      e.observable.Argument,
		NumberOfLinks: e.cfg.Chain.NumberOfLinks,
		LinkLength:    e.cfg.Chain.LinkLength,
		Parameters:    e.cfg.Potential,
		Temperature:   e.cfg.Temperature,
		Arguments:     args,
		Values:        values,
		Elapsed:       time.Since(started),
	}, nil
}

func (e *Experiment) Model() chains.Model { return e.model }

func (e *Experiment) Observable() Observable { return e.observable }

func (e *Experiment) Config() config.Config { return e.cfg }

func (e *Experiment) variantName() string {
	if e.observable.Ensemble == "" {
		return "distribution"
	}
	if e.cfg.Sweep.Variant == "" {
		return "default"
	}
	return e.cfg.Sweep.Variant
}
