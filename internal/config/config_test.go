package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/thermo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "ideal" {
		t.Errorf("expected model ideal, got %s", cfg.Model)
	}
	if cfg.Temperature <= 0 {
		t.Error("temperature should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("efjc", "stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Potential.LinkStiffness != 1000 {
		t.Errorf("expected link stiffness 1000, got %f", cfg.Potential.LinkStiffness)
	}

	cfg.Chain.NumberOfLinks = 3
	if GetPreset("efjc", "stiff").Chain.NumberOfLinks == 3 {
		t.Error("preset should be returned as a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("efjc", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "stiff")
	if cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("ideal")
	if len(presets) != 3 || presets[0] != "density" {
		t.Errorf("expected sorted ideal presets, got %v", presets)
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresets_Validate(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
			if cfg.Model != model {
				t.Errorf("%s/%s: preset declares model %s", model, name, cfg.Model)
			}
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"unknown model", func(c *Config) { c.Model = "rubber" }, thermo.ErrUnknownModel},
		{"no links", func(c *Config) { c.Chain.NumberOfLinks = 0 }, thermo.ErrInvalidParameter},
		{"too many links", func(c *Config) { c.Chain.NumberOfLinks = 256 }, thermo.ErrInvalidParameter},
		{"cold", func(c *Config) { c.Temperature = 0 }, thermo.ErrInvalidParameter},
		{"bad ensemble", func(c *Config) { c.Sweep.Ensemble = "grand" }, thermo.ErrInvalidParameter},
		{"one point", func(c *Config) { c.Sweep.Points = 1 }, thermo.ErrInvalidParameter},
		{"reversed range", func(c *Config) { c.Sweep.From, c.Sweep.To = 2, 1 }, thermo.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "polysim.yaml")

	cfg := GetPreset("morse-fjc", "covalent")
	g.Expect(Save(path, cfg)).To(Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestBuildModel(t *testing.T) {
	g := NewWithT(t)
	cfg := GetPreset("swfjc", "wide")
	cfg.Chain.NumberOfLinks = 6

	m, err := cfg.BuildModel()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Kind()).To(Equal(chains.KindSWFJC))
	g.Expect(m.Chain().NumberOfLinks).To(Equal(uint8(6)))
	g.Expect(m.Parameters().WellWidth).To(Equal(0.5))
}

func TestLoadOver(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "partial.yaml")
	g.Expect(os.WriteFile(path, []byte("temperature: 250\nsweep:\n  points: 9\n"), 0644)).To(Succeed())

	base := GetPreset("efjc", "stiff")
	cfg, err := LoadOver(path, base)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Temperature).To(Equal(250.0))
	g.Expect(cfg.Sweep.Points).To(Equal(9))
	g.Expect(cfg.Sweep.Observable).To(Equal(base.Sweep.Observable))
	g.Expect(cfg.Potential.LinkStiffness).To(Equal(1000.0))
	g.Expect(base.Temperature).To(Equal(DefaultTemperature))

	_, err = LoadOver(filepath.Join(t.TempDir(), "missing.yaml"), base)
	g.Expect(err).To(HaveOccurred())
}
