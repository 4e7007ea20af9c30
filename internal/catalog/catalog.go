// Package catalog indexes stored runs in SQLite so they can be queried
// by model and observable.
package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/storage"
	"github.com/san-kum/polysim/internal/sweep"
)

var ErrNotFound = errors.New("catalog: run not found")

// Catalog wraps a SQLite connection.
type Catalog struct {
	conn *sqlx.DB
}

// Open opens or creates a catalog at the given path.
func Open(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		observable TEXT NOT NULL,
		ensemble TEXT NOT NULL,
		variant TEXT NOT NULL,
		argument TEXT NOT NULL,
		number_of_links INTEGER NOT NULL,
		link_length REAL NOT NULL,
		temperature REAL NOT NULL,
		points INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		elapsed INTEGER NOT NULL,
		min_value REAL NOT NULL,
		max_value REAL NOT NULL,
		mean_value REAL NOT NULL,
		parameters_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		argument REAL NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
	CREATE INDEX IF NOT EXISTS idx_runs_observable ON runs(observable);
	`
	_, err := c.conn.Exec(schema)
	return err
}

type runRow struct {
	ID             string  `db:"id"`
	Model          string  `db:"model"`
	Observable     string  `db:"observable"`
	Ensemble       string  `db:"ensemble"`
	Variant        string  `db:"variant"`
	Argument       string  `db:"argument"`
	NumberOfLinks  int     `db:"number_of_links"`
	LinkLength     float64 `db:"link_length"`
	Temperature    float64 `db:"temperature"`
	Points         int     `db:"points"`
	CreatedAt      int64   `db:"created_at"`
	Elapsed        int64   `db:"elapsed"`
	MinValue       float64 `db:"min_value"`
	MaxValue       float64 `db:"max_value"`
	MeanValue      float64 `db:"mean_value"`
	ParametersJSON string  `db:"parameters_json"`
}

func (r runRow) metadata() (storage.RunMetadata, error) {
	var p chains.Parameters
	if err := json.Unmarshal([]byte(r.ParametersJSON), &p); err != nil {
		return storage.RunMetadata{}, fmt.Errorf("run %s parameters: %w", r.ID, err)
	}
	return storage.RunMetadata{
		ID:            r.ID,
		Model:         r.Model,
		Observable:    r.Observable,
		Ensemble:      r.Ensemble,
		Variant:       r.Variant,
		Argument:      r.Argument,
		NumberOfLinks: r.NumberOfLinks,
		LinkLength:    r.LinkLength,
		Parameters:    p,
		Temperature:   r.Temperature,
		Points:        r.Points,
		Timestamp:     time.Unix(0, r.CreatedAt),
		Elapsed:       time.Duration(r.Elapsed),
		Summary:       sweep.Summary{Min: r.MinValue, Max: r.MaxValue, Mean: r.MeanValue},
	}, nil
}

// Record indexes a run and its samples, replacing any earlier record
// with the same id.
func (c *Catalog) Record(meta storage.RunMetadata, args, values []float64) error {
	if len(args) != len(values) {
		return fmt.Errorf("run %s: %d arguments but %d values", meta.ID, len(args), len(values))
	}
	params, err := json.Marshal(meta.Parameters)
	if err != nil {
		return err
	}

	tx, err := c.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM samples WHERE run_id = ?", meta.ID); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(id, model, observable, ensemble, variant, argument, number_of_links, link_length,
		 temperature, points, created_at, elapsed, min_value, max_value, mean_value, parameters_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Model, meta.Observable, meta.Ensemble, meta.Variant, meta.Argument,
		meta.NumberOfLinks, meta.LinkLength, meta.Temperature, len(values),
		meta.Timestamp.UnixNano(), int64(meta.Elapsed),
		meta.Summary.Min, meta.Summary.Max, meta.Summary.Mean, string(params),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Preparex("INSERT INTO samples (run_id, idx, argument, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range args {
		if _, err := stmt.Exec(meta.ID, i, args[i], values[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("run cataloged", "id", meta.ID, "samples", len(values))
	return nil
}

// Filter narrows a listing; empty fields match everything.
type Filter struct {
	Model      string
	Observable string
	Limit      int
}

// Runs lists matching runs, newest first.
func (c *Catalog) Runs(f Filter) ([]storage.RunMetadata, error) {
	query := `SELECT * FROM runs
		WHERE (? = '' OR model = ?) AND (? = '' OR observable = ?)
		ORDER BY created_at DESC`
	args := []any{f.Model, f.Model, f.Observable, f.Observable}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	var rows []runRow
	if err := c.conn.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]storage.RunMetadata, 0, len(rows))
	for _, r := range rows {
		meta, err := r.metadata()
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

func (c *Catalog) Get(id string) (*storage.RunMetadata, error) {
	var r runRow
	if err := c.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	meta, err := r.metadata()
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// Samples returns the arguments and values of a run in sweep order.
func (c *Catalog) Samples(id string) ([]float64, []float64, error) {
	var rows []struct {
		Argument float64 `db:"argument"`
		Value    float64 `db:"value"`
	}
	err := c.conn.Select(&rows, "SELECT argument, value FROM samples WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		if _, err := c.Get(id); err != nil {
			return nil, nil, err
		}
	}

	args := make([]float64, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		args[i], values[i] = r.Argument, r.Value
	}
	return args, values, nil
}

func (c *Catalog) Delete(id string) error {
	tx, err := c.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM samples WHERE run_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

// Count returns the number of cataloged runs.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.conn.Get(&n, "SELECT COUNT(*) FROM runs")
	return n, err
}
