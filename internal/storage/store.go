package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/experiment"
	"github.com/san-kum/polysim/internal/export"
	"github.com/san-kum/polysim/internal/sweep"
)

const (
	metadataFile = "metadata.json"
	dataFile     = "data.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	logger  *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: slog.Default()}
}

func (s *Store) WithLogger(logger *slog.Logger) *Store {
	s.logger = logger
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string            `json:"id"`
	Model         string            `json:"model"`
	Observable    string            `json:"observable"`
	Ensemble      string            `json:"ensemble"`
	Variant       string            `json:"variant"`
	Argument      string            `json:"argument"`
	NumberOfLinks int               `json:"number_of_links"`
	LinkLength    float64           `json:"link_length"`
	Parameters    chains.Parameters `json:"parameters"`
	Temperature   float64           `json:"temperature"`
	Points        int               `json:"points"`
	Timestamp     time.Time         `json:"timestamp"`
	Elapsed       time.Duration     `json:"elapsed"`
	Summary       sweep.Summary     `json:"summary"`
}

func (s *Store) Save(result *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Model:         result.Model,
		Observable:    result.Observable,
		Ensemble:      result.Ensemble,
		Variant:       result.Variant,
		Argument:      string(result.Argument),
		NumberOfLinks: result.NumberOfLinks,
		LinkLength:    result.LinkLength,
		Parameters:    result.Parameters,
		Temperature:   result.Temperature,
		Points:        len(result.Values),
		Timestamp:     time.Now(),
		Elapsed:       result.Elapsed,
		Summary:       result.Summary(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := export.ExportCSV(filepath.Join(runDir, dataFile), result); err != nil {
		return "", err
	}

	s.logger.Info("run saved", "id", runID, "model", meta.Model, "observable", meta.Observable, "points", meta.Points)
	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadData returns the swept arguments and values of a run.
func (s *Store) LoadData(runID string) ([]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, dataFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return export.ReadCSV(file)
}

// LoadResult rebuilds the full result of a stored run.
func (s *Store) LoadResult(runID string) (*experiment.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	args, values, err := s.LoadData(runID)
	if err != nil {
		return nil, err
	}
	return &experiment.Result{
		Model:         meta.Model,
		Observable:    meta.Observable,
		Ensemble:      meta.Ensemble,
		Variant:       meta.Variant,
		Argument:      experiment.Argument(meta.Argument),
		NumberOfLinks: meta.NumberOfLinks,
		LinkLength:    meta.LinkLength,
		Parameters:    meta.Parameters,
		Temperature:   meta.Temperature,
		Arguments:     args,
		Values:        values,
		Elapsed:       meta.Elapsed,
	}, nil
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
