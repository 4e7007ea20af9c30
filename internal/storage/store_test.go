package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/experiment"
)

func result() *experiment.Result {
	return &experiment.Result{
		Model:         "efjc",
		Observable:    "nondimensional_end_to_end_length_per_link",
		Ensemble:      "isotensional",
		Variant:       "exact",
		Argument:      experiment.ArgEta,
		NumberOfLinks: 16,
		LinkLength:    1,
		Parameters:    chains.Parameters{LinkStiffness: 1000},
		Temperature:   300,
		Arguments:     []float64{0.1, 1, 10},
		Values:        []float64{0.0333, 0.3140, 0.9101},
		Elapsed:       3 * time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(result())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("expected a uuid run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "efjc" {
		t.Errorf("expected model 'efjc', got '%s'", meta.Model)
	}
	if meta.Parameters.LinkStiffness != 1000 {
		t.Errorf("expected link stiffness 1000, got %v", meta.Parameters.LinkStiffness)
	}
	if meta.Points != 3 || meta.Summary.Max != 0.9101 {
		t.Errorf("unexpected summary: %+v", meta)
	}

	args, values, err := st.LoadData(runID)
	if err != nil {
		t.Fatalf("load data failed: %v", err)
	}
	if len(args) != 3 || values[2] != 0.9101 {
		t.Errorf("unexpected data: %v %v", args, values)
	}
}

func TestStoreLoadResult(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	want := result()
	runID, err := st.Save(want)
	g.Expect(err).NotTo(HaveOccurred())

	got, err := st.LoadResult(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(want))
}

func TestStoreList(t *testing.T) {
	g := NewWithT(t)
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(BeEmpty())

	g.Expect(st.Init()).To(Succeed())
	first, _ := st.Save(result())
	second, _ := st.Save(result())

	// unreadable runs are skipped
	g.Expect(os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755)).To(Succeed())

	runs, err = st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(2))
	ids := []string{runs[0].ID, runs[1].ID}
	g.Expect(ids).To(ConsistOf(first, second))
}

func TestStoreDelete(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, _ := st.Save(result())
	g.Expect(st.Delete(runID)).To(Succeed())

	_, err := st.Load(runID)
	g.Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	g.Expect(errors.Is(st.Delete(runID), os.ErrNotExist)).To(BeTrue())
}
