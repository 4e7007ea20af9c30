package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/numerics"
	"github.com/san-kum/polysim/internal/thermo"
)

func TestRegistry_Lists(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	g.Expect(r.ListModels()).To(HaveLen(len(chains.Kinds())))
	g.Expect(r.ListModels()).To(ContainElement("morse-fjc"))
	g.Expect(r.ListObservables(chains.Isotensional)).To(HaveLen(12))
	g.Expect(r.ListObservables(chains.Isometric)).To(HaveLen(10))
	g.Expect(r.ListObservables("")).To(HaveLen(26))
	g.Expect(r.ListObservables(chains.Isometric)).To(ContainElement("relative_helmholtz_free_energy_per_link"))
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	chain, _ := thermo.NewChain(4, 1, 1)

	if _, err := r.GetModel("rubber", chain, chains.Parameters{}); !errors.Is(err, thermo.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if _, err := r.GetObservable("stress"); !errors.Is(err, thermo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestExperiment_IdealSweep(t *testing.T) {
	g := NewWithT(t)
	cfg := config.DefaultConfig()
	cfg.Sweep.Points = 20

	exp := New(cfg, nil)
	g.Expect(exp.Setup(NewRegistry())).To(Succeed())

	result, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Values).To(HaveLen(20))
	g.Expect(result.Argument).To(Equal(ArgEta))
	g.Expect(result.Variant).To(Equal("default"))

	for i, eta := range result.Arguments {
		g.Expect(result.Values[i]).To(BeNumerically("~", numerics.Langevin(eta), 1e-12))
	}

	s := result.Summary()
	g.Expect(s.Min).To(BeNumerically("<", s.Mean))
	g.Expect(s.Max).To(BeNumerically("<", 1.0))
}

func TestExperiment_DimensionalObservable(t *testing.T) {
	g := NewWithT(t)
	cfg := config.DefaultConfig()
	cfg.Chain.NumberOfLinks = 10
	cfg.Chain.LinkLength = 2
	cfg.Sweep.Observable = "end_to_end_length"

	exp := New(cfg, nil)
	g.Expect(exp.Setup(NewRegistry())).To(Succeed())

	chain, _ := cfg.ChainDescriptor()
	force := 1e-3
	got, err := exp.Evaluate(force)
	g.Expect(err).NotTo(HaveOccurred())
	want := chain.ContourLength() * numerics.Langevin(chain.NondimensionalForce(force, cfg.Temperature))
	g.Expect(got).To(BeNumerically("~", want, 1e-12*math.Max(1, want)))
}

func TestExperiment_Density(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("ideal", "density")
	cfg.Sweep.Points = 16

	exp := New(cfg, nil)
	g.Expect(exp.Setup(NewRegistry())).To(Succeed())
	g.Expect(exp.Observable().Ensemble).To(BeEmpty())

	result, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Variant).To(Equal("distribution"))
	for _, v := range result.Values {
		g.Expect(v).To(BeNumerically(">=", 0))
	}
}

func TestExperiment_SetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		target error
	}{
		{"ensemble mismatch", func(c *config.Config) { c.Sweep.Ensemble = string(chains.Isometric) }, thermo.ErrInvalidParameter},
		{"missing variant", func(c *config.Config) { c.Model = "fjc"; c.Sweep.Variant = "reduced" }, thermo.ErrUnknownModel},
		{"unknown observable", func(c *config.Config) { c.Sweep.Observable = "stress" }, thermo.ErrInvalidParameter},
		{"missing parameter", func(c *config.Config) { c.Model = "efjc" }, thermo.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if err := New(cfg, nil).Setup(NewRegistry()); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestExperiment_NotSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), nil)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if _, err := exp.Evaluate(1); err == nil {
		t.Error("expected error before setup")
	}
}

func TestExperiment_OutOfRangeFails(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset("ideal", "long")
	cfg.Sweep.To = 1.5

	exp := New(cfg, nil)
	g.Expect(exp.Setup(NewRegistry())).To(Succeed())
	_, err := exp.Run(context.Background())
	g.Expect(errors.Is(err, thermo.ErrOutOfRange)).To(BeTrue())
}
