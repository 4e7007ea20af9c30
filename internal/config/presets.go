package config

import (
	"sort"

	"github.com/san-kum/polysim/internal/chains"
)

func preset(model chains.Kind, links int, p chains.Parameters, sweep SweepConfig) *Config {
	cfg := DefaultConfig()
	cfg.Model = string(model)
	cfg.Chain.NumberOfLinks = links
	cfg.Potential = p
	cfg.Sweep = sweep
	return cfg
}

var (
	forceSweep = SweepConfig{
		Observable: "nondimensional_end_to_end_length_per_link",
		Ensemble:   string(chains.Isotensional),
		From:       0.1,
		To:         20,
		Points:     DefaultPoints,
	}
	extensionSweep = SweepConfig{
		Observable: "nondimensional_force",
		Ensemble:   string(chains.Isometric),
		From:       0.01,
		To:         0.95,
		Points:     DefaultPoints,
	}
	// stays below the maximum force of the weak Morse bond
	weakSweep = SweepConfig{
		Observable: "nondimensional_end_to_end_length_per_link",
		Ensemble:   string(chains.Isotensional),
		From:       0.1,
		To:         12,
		Points:     DefaultPoints,
	}
	densitySweep = SweepConfig{
		Observable: "nondimensional_radial_density",
		Ensemble:   string(chains.Isometric),
		From:       0.005,
		To:         0.995,
		Points:     DefaultPoints,
	}
)

var Presets = map[string]map[string]*Config{
	string(chains.KindIdeal): {
		"short":   preset(chains.KindIdeal, 8, chains.Parameters{}, forceSweep),
		"long":    preset(chains.KindIdeal, 100, chains.Parameters{}, extensionSweep),
		"density": preset(chains.KindIdeal, 25, chains.Parameters{}, densitySweep),
	},
	string(chains.KindFJC): {
		"short":   preset(chains.KindFJC, 4, chains.Parameters{}, extensionSweep),
		"density": preset(chains.KindFJC, 8, chains.Parameters{}, densitySweep),
	},
	string(chains.KindEFJC): {
		"stiff": preset(chains.KindEFJC, 16, chains.Parameters{LinkStiffness: 1000}, forceSweep),
		"soft":  preset(chains.KindEFJC, 16, chains.Parameters{LinkStiffness: 20}, forceSweep),
	},
	string(chains.KindSWFJC): {
		"narrow": preset(chains.KindSWFJC, 16, chains.Parameters{WellWidth: 0.01}, forceSweep),
		"wide":   preset(chains.KindSWFJC, 16, chains.Parameters{WellWidth: 0.5}, forceSweep),
	},
	string(chains.KindWLC): {
		"flexible": preset(chains.KindWLC, 32, chains.Parameters{PersistenceLength: 0.5}, extensionSweep),
		"stiff":    preset(chains.KindWLC, 32, chains.Parameters{PersistenceLength: 20}, extensionSweep),
	},
	string(chains.KindHarmonicFJC): {
		"stiff": preset(chains.KindHarmonicFJC, 16, chains.Parameters{LinkStiffness: 1000}, forceSweep),
	},
	string(chains.KindMorseFJC): {
		"covalent": preset(chains.KindMorseFJC, 16, chains.Parameters{LinkStiffness: 1000, LinkEnergy: 100}, forceSweep),
		"weak":     preset(chains.KindMorseFJC, 16, chains.Parameters{LinkStiffness: 200, LinkEnergy: 10}, weakSweep),
	},
	string(chains.KindLJFJC): {
		"stiff": preset(chains.KindLJFJC, 16, chains.Parameters{LinkStiffness: 1000}, forceSweep),
	},
	string(chains.KindLogSqFJC): {
		"stiff": preset(chains.KindLogSqFJC, 16, chains.Parameters{LinkStiffness: 1000}, forceSweep),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
