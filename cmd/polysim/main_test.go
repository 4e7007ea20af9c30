package main

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

func newConfigCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	for k, v := range flags {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	t.Cleanup(func() { preset, configFile = "", "" })
	return cmd
}

func TestLoadConfig_ModelStartsFromPreset(t *testing.T) {
	g := NewWithT(t)
	cfg, err := loadConfig(newConfigCmd(t, nil), "efjc")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Model).To(Equal("efjc"))
	g.Expect(cfg.Potential.LinkStiffness).To(Equal(20.0))
}

func TestLoadConfig_Precedence(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	g.Expect(os.WriteFile(path, []byte("chain:\n  number_of_links: 40\npotential:\n  link_stiffness: 300\n"), 0644)).To(Succeed())

	cmd := newConfigCmd(t, map[string]string{
		"preset": "stiff",
		"config": path,
		"links":  "12",
	})
	cfg, err := loadConfig(cmd, "efjc")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Chain.NumberOfLinks).To(Equal(12))
	g.Expect(cfg.Potential.LinkStiffness).To(Equal(300.0))
	g.Expect(cfg.Sweep.To).To(Equal(20.0))
}

func TestLoadConfig_Errors(t *testing.T) {
	g := NewWithT(t)
	_, err := loadConfig(newConfigCmd(t, map[string]string{"preset": "nope"}), "fjc")
	g.Expect(err).To(MatchError(ContainSubstring("unknown preset")))

	_, err = loadConfig(newConfigCmd(t, map[string]string{"points": "1"}), "fjc")
	g.Expect(err).To(HaveOccurred())

	_, err = loadConfig(newConfigCmd(t, map[string]string{"config": "/nonexistent.yaml"}), "")
	g.Expect(err).To(HaveOccurred())
}

func TestParseGrid(t *testing.T) {
	g := NewWithT(t)
	name, values, err := parseGrid("link_stiffness=10:50:5")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(name).To(Equal("link_stiffness"))
	g.Expect(values).To(Equal([]float64{10, 20, 30, 40, 50}))

	for _, bad := range []string{"link_stiffness", "a=1:2", "a=x:2:3", "a=1:2:x", "a=1:1:3"} {
		_, _, err := parseGrid(bad)
		g.Expect(err).To(HaveOccurred(), bad)
	}
}

func TestMaxRelativeDifference(t *testing.T) {
	g := NewWithT(t)
	g.Expect(maxRelativeDifference([]float64{1, 2, 4}, []float64{1, 2, 2})).To(Equal(0.5))
	g.Expect(maxRelativeDifference(nil, []float64{1})).To(Equal(0.0))
}
