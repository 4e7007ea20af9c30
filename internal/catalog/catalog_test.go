package catalog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/storage"
	"github.com/san-kum/polysim/internal/sweep"
)

func open(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func meta(id, model string, created time.Time) storage.RunMetadata {
	return storage.RunMetadata{
		ID:            id,
		Model:         model,
		Observable:    "nondimensional_force",
		Ensemble:      "isometric",
		Variant:       "default",
		Argument:      "gamma",
		NumberOfLinks: 8,
		LinkLength:    1,
		Parameters:    chains.Parameters{WellWidth: 0.25},
		Temperature:   300,
		Timestamp:     created,
		Elapsed:       2 * time.Millisecond,
		Summary:       sweep.Summary{Min: 0.3, Max: 9, Mean: 3},
	}
}

func TestRecordAndGet(t *testing.T) {
	g := NewWithT(t)
	c := open(t)
	now := time.Now()

	g.Expect(c.Record(meta("a", "swfjc", now), []float64{0.1, 0.5, 0.9}, []float64{0.3, 1.6, 9})).To(Succeed())

	got, err := c.Get("a")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got.Model).To(Equal("swfjc"))
	g.Expect(got.Points).To(Equal(3))
	g.Expect(got.Parameters.WellWidth).To(Equal(0.25))
	g.Expect(got.Timestamp.Equal(now)).To(BeTrue())
	g.Expect(got.Elapsed).To(Equal(2 * time.Millisecond))

	args, values, err := c.Samples("a")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(args).To(Equal([]float64{0.1, 0.5, 0.9}))
	g.Expect(values).To(Equal([]float64{0.3, 1.6, 9}))
}

func TestRecordReplaces(t *testing.T) {
	g := NewWithT(t)
	c := open(t)

	g.Expect(c.Record(meta("a", "fjc", time.Now()), []float64{1, 2, 3}, []float64{1, 2, 3})).To(Succeed())
	g.Expect(c.Record(meta("a", "fjc", time.Now()), []float64{1}, []float64{4})).To(Succeed())

	n, err := c.Count()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(1))

	_, values, _ := c.Samples("a")
	g.Expect(values).To(Equal([]float64{4}))
}

func TestRecordMismatch(t *testing.T) {
	c := open(t)
	if err := c.Record(meta("a", "fjc", time.Now()), []float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected error for mismatched samples")
	}
}

func TestRunsFilter(t *testing.T) {
	g := NewWithT(t)
	c := open(t)
	base := time.Now()

	g.Expect(c.Record(meta("old", "fjc", base), nil, nil)).To(Succeed())
	g.Expect(c.Record(meta("new", "fjc", base.Add(time.Second)), nil, nil)).To(Succeed())
	g.Expect(c.Record(meta("other", "wlc", base.Add(2*time.Second)), nil, nil)).To(Succeed())

	runs, err := c.Runs(Filter{Model: "fjc"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(2))
	g.Expect(runs[0].ID).To(Equal("new"))

	runs, err = c.Runs(Filter{})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(3))

	runs, err = c.Runs(Filter{Limit: 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(1))
	g.Expect(runs[0].ID).To(Equal("other"))

	runs, err = c.Runs(Filter{Observable: "density"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(BeEmpty())
}

func TestDeleteAndNotFound(t *testing.T) {
	g := NewWithT(t)
	c := open(t)

	g.Expect(c.Record(meta("a", "fjc", time.Now()), []float64{1}, []float64{2})).To(Succeed())
	g.Expect(c.Delete("a")).To(Succeed())

	_, err := c.Get("a")
	g.Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	_, _, err = c.Samples("a")
	g.Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	g.Expect(errors.Is(c.Delete("a"), ErrNotFound)).To(BeTrue())
}

func TestReopen(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Record(meta("a", "efjc", time.Now()), []float64{1}, []float64{2})).To(Succeed())
	g.Expect(c.Close()).To(Succeed())

	c, err = Open(path)
	g.Expect(err).NotTo(HaveOccurred())
	defer c.Close()
	n, _ := c.Count()
	g.Expect(n).To(Equal(1))
}
