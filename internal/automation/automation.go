package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/experiment"
)

// Scenario defines a scripted batch of sweeps
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single sweep. Zero fields keep the value of the
// preset, or of the default config when no preset is named.
type ScenarioStep struct {
	Model       string             `yaml:"model"`
	Preset      string             `yaml:"preset"`
	Links       int                `yaml:"number_of_links"`
	Temperature float64            `yaml:"temperature"`
	Observable  string             `yaml:"observable"`
	Ensemble    string             `yaml:"ensemble"`
	Variant     string             `yaml:"variant"`
	From        *float64           `yaml:"from"`
	To          *float64           `yaml:"to"`
	Points      int                `yaml:"points"`
	Params      map[string]float64 `yaml:"params"`
	SaveAs      string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step into a full experiment config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s for %s", s.Preset, s.Model)
		}
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.Links > 0 {
		cfg.Chain.NumberOfLinks = s.Links
	}
	if s.Temperature > 0 {
		cfg.Temperature = s.Temperature
	}
	if s.Observable != "" {
		cfg.Sweep.Observable = s.Observable
	}
	if s.Ensemble != "" {
		cfg.Sweep.Ensemble = s.Ensemble
	}
	if s.Variant != "" {
		cfg.Sweep.Variant = s.Variant
	}
	if s.From != nil {
		cfg.Sweep.From = *s.From
	}
	if s.To != nil {
		cfg.Sweep.To = *s.To
	}
	if s.Points > 0 {
		cfg.Sweep.Points = s.Points
	}
	for k, v := range s.Params {
		if err := cfg.Potential.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StepResult pairs a finished sweep with the name it should be saved under.
type StepResult struct {
	SaveAs string
	Result *experiment.Result
}

// RunScenario executes all steps in a scenario, stopping at the first
// failure. Results of the steps that finished are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "model", step.Model, "observable", step.Observable)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{SaveAs: step.SaveAs, Result: result})
	}

	return results, nil
}
