package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/thermo"
)

const (
	DefaultLinks       = 16
	DefaultLinkLength  = 1.0
	DefaultHingeMass   = 1.0
	DefaultTemperature = 300.0
	DefaultPoints      = thermo.Points
)

type Config struct {
	Model       string            `yaml:"model"`
	Chain       ChainConfig       `yaml:"chain"`
	Potential   chains.Parameters `yaml:"potential"`
	Temperature float64           `yaml:"temperature"`
	Sweep       SweepConfig       `yaml:"sweep"`
}

type ChainConfig struct {
	NumberOfLinks int     `yaml:"number_of_links"`
	LinkLength    float64 `yaml:"link_length"`
	HingeMass     float64 `yaml:"hinge_mass"`
}

// SweepConfig describes a batch evaluation. From and To are in the
// units of the observable's argument.
type SweepConfig struct {
	Observable string  `yaml:"observable"`
	Ensemble   string  `yaml:"ensemble"`
	Variant    string  `yaml:"variant"`
	From       float64 `yaml:"from"`
	To         float64 `yaml:"to"`
	Points     int     `yaml:"points"`
	Workers    int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: string(chains.KindIdeal),
		Chain: ChainConfig{
			NumberOfLinks: DefaultLinks,
			LinkLength:    DefaultLinkLength,
			HingeMass:     DefaultHingeMass,
		},
		Temperature: DefaultTemperature,
		Sweep: SweepConfig{
			Observable: "nondimensional_end_to_end_length_per_link",
			Ensemble:   string(chains.Isotensional),
			From:       0.1,
			To:         10,
			Points:     DefaultPoints,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a config file on top of base, so keys the file omits
// keep the base values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that does not need a model to be built.
func (c *Config) Validate() error {
	if _, err := chains.ParseKind(c.Model); err != nil {
		return err
	}
	if _, err := c.ChainDescriptor(); err != nil {
		return err
	}
	if err := thermo.Positive("temperature", c.Temperature); err != nil {
		return err
	}
	switch chains.Ensemble(c.Sweep.Ensemble) {
	case chains.Isotensional, chains.Isometric, "":
	default:
		return fmt.Errorf("%w: ensemble %q", thermo.ErrInvalidParameter, c.Sweep.Ensemble)
	}
	if c.Sweep.Points < 2 {
		return &thermo.ParameterError{Name: "sweep.points", Value: float64(c.Sweep.Points)}
	}
	if !(c.Sweep.To > c.Sweep.From) {
		return &thermo.ParameterError{Name: "sweep.to", Value: c.Sweep.To}
	}
	if c.Sweep.Workers < 0 {
		return &thermo.ParameterError{Name: "sweep.workers", Value: float64(c.Sweep.Workers)}
	}
	return nil
}

func (c *Config) ChainDescriptor() (thermo.Chain, error) {
	if c.Chain.NumberOfLinks < 1 || c.Chain.NumberOfLinks > 255 {
		return thermo.Chain{}, &thermo.ParameterError{Name: "number_of_links", Value: float64(c.Chain.NumberOfLinks)}
	}
	return thermo.NewChain(uint8(c.Chain.NumberOfLinks), c.Chain.LinkLength, c.Chain.HingeMass)
}

func (c *Config) Kind() chains.Kind {
	return chains.Kind(c.Model)
}

// BuildModel constructs the configured chain model.
func (c *Config) BuildModel() (chains.Model, error) {
	kind, err := chains.ParseKind(c.Model)
	if err != nil {
		return nil, err
	}
	chain, err := c.ChainDescriptor()
	if err != nil {
		return nil, err
	}
	return chains.New(kind, chain, c.Potential)
}
