package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/experiment"
)

const scenarioYAML = `
name: stiffness study
description: soft and stiff links
steps:
  - model: efjc
    preset: soft
    points: 8
    save_as: soft
  - model: efjc
    preset: soft
    points: 8
    params:
      link_stiffness: 500
    save_as: stiff
  - model: fjc
    number_of_links: 6
    observable: nondimensional_force
    ensemble: isometric
    from: 0.1
    to: 0.8
    points: 5
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	g := NewWithT(t)
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Name).To(Equal("stiffness study"))
	g.Expect(s.Steps).To(HaveLen(3))
	g.Expect(*s.Steps[2].To).To(Equal(0.8))

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	g.Expect(err).To(HaveOccurred())

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(err).To(HaveOccurred())
}

func TestStepConfig(t *testing.T) {
	g := NewWithT(t)
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	g.Expect(err).NotTo(HaveOccurred())

	cfg, err := s.Steps[1].Config()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Potential.LinkStiffness).To(Equal(500.0))
	g.Expect(cfg.Sweep.Points).To(Equal(8))

	cfg, err = s.Steps[2].Config()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Chain.NumberOfLinks).To(Equal(6))
	g.Expect(cfg.Sweep.From).To(Equal(0.1))

	_, err = ScenarioStep{Model: "efjc", Preset: "nope"}.Config()
	g.Expect(err).To(HaveOccurred())
	_, err = ScenarioStep{Model: "efjc", Params: map[string]float64{"bogus": 1}}.Config()
	g.Expect(err).To(HaveOccurred())
}

func TestRunScenario(t *testing.T) {
	g := NewWithT(t)
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	g.Expect(err).NotTo(HaveOccurred())

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(3))
	g.Expect(results[0].SaveAs).To(Equal("soft"))
	g.Expect(results[2].Result.Values).To(HaveLen(5))

	// stiffer links stretch less at the same force
	soft, stiff := results[0].Result.Values, results[1].Result.Values
	g.Expect(stiff[7]).To(BeNumerically("<", soft[7]))
}

func TestRunScenario_StopsAtFailure(t *testing.T) {
	g := NewWithT(t)
	s := &Scenario{Steps: []ScenarioStep{
		{Model: "fjc", Points: 4},
		{Model: "efjc"},
	}}
	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	g.Expect(err).To(MatchError(ContainSubstring("step 2")))
	g.Expect(results).To(HaveLen(1))
}
