package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/experiment"
)

func sample() *experiment.Result {
	return &experiment.Result{
		Model:         "ideal",
		Observable:    "nondimensional_force",
		Ensemble:      "isometric",
		Argument:      experiment.ArgGamma,
		NumberOfLinks: 8,
		Temperature:   300,
		Arguments:     []float64{0.1, 0.5, 0.9},
		Values:        []float64{0.30100751, 1.6363, 9.9995},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "force.csv")
	result := sample()

	g.Expect(ExportCSV(path, result)).To(Succeed())

	var buf bytes.Buffer
	g.Expect(WriteCSV(&buf, result)).To(Succeed())
	g.Expect(strings.SplitN(buf.String(), "\n", 2)[0]).To(Equal("gamma,nondimensional_force"))

	args, values, err := ReadCSV(&buf)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(args).To(Equal(result.Arguments))
	g.Expect(values).To(Equal(result.Values))
}

func TestReadCSV_Malformed(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("gamma,force\n0.1,abc\n"))
	if err == nil {
		t.Error("expected parse error")
	}

	args, values, err := ReadCSV(strings.NewReader("gamma,force\n"))
	if err != nil || len(args) != 0 || len(values) != 0 {
		t.Errorf("expected empty data, got %v %v %v", args, values, err)
	}
}

func TestWriteJSON(t *testing.T) {
	g := NewWithT(t)
	var buf bytes.Buffer
	g.Expect(WriteJSON(&buf, sample())).To(Succeed())

	var decoded experiment.Result
	g.Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
	g.Expect(decoded.Model).To(Equal("ideal"))
	g.Expect(decoded.Values).To(HaveLen(3))

	path := filepath.Join(t.TempDir(), "force.json")
	g.Expect(ExportJSON(path, sample())).To(Succeed())
}

func TestCurveToSVG(t *testing.T) {
	svg := CurveToSVG([]float64{0, 1, 2}, []float64{0, 1, 4}, 200, 100, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Errorf("unexpected svg header: %q", svg)
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected two line segments, got %q", svg)
	}
	if CurveToSVG([]float64{1}, []float64{1}, 10, 10, "red") != "" {
		t.Error("expected empty svg for a single point")
	}
}
