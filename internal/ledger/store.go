// Package ledger records pricing runs in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/born-ml/aadmc/internal/pricing"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	created_at     TEXT NOT NULL,
	product        TEXT NOT NULL,
	model_json     TEXT NOT NULL,
	paths          INTEGER NOT NULL,
	seed           INTEGER NOT NULL,
	method         TEXT NOT NULL,
	h_factor       REAL NOT NULL,
	mc_value       REAL NOT NULL,
	mc_delta       REAL NOT NULL,
	analytic_value REAL NOT NULL,
	analytic_delta REAL NOT NULL,
	elapsed_ns     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by Get for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded valuation.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Product       string
	Model         pricing.BlackModel
	Paths         int
	Seed          uint64
	Method        string
	HFactor       float64
	Value         float64
	Delta         float64
	AnalyticValue float64
	AnalyticDelta float64
	Elapsed       time.Duration
}

// FromResult converts a pricing result into a run. Seed and method describe
// the normals the result was computed from.
func FromResult(r pricing.Result, seed uint64, method string) Run {
	return Run{
		Product:       r.Product.String(),
		Model:         r.Model,
		Paths:         r.Paths,
		Seed:          seed,
		Method:        method,
		HFactor:       r.HFactor,
		Value:         r.Value,
		Delta:         r.Delta,
		AnalyticValue: r.AnalyticValue,
		AnalyticDelta: r.AnalyticDelta,
		Elapsed:       r.Elapsed,
	}
}

// Store manages recorded runs.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r under a new run id and returns the stored run.
func (s *Store) Record(ctx context.Context, r Run) (Run, error) {
	r.ID = uuid.New().String()
	r.CreatedAt = time.Now().UTC()

	model, err := json.Marshal(r.Model)
	if err != nil {
		return Run{}, fmt.Errorf("marshal model: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, product, model_json, paths, seed, method, h_factor,
		                   mc_value, mc_delta, analytic_value, analytic_delta, elapsed_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(timeLayout), r.Product, string(model), r.Paths, int64(r.Seed), r.Method, r.HFactor,
		r.Value, r.Delta, r.AnalyticValue, r.AnalyticDelta, int64(r.Elapsed),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return r, nil
}

const selectRuns = `SELECT run_id, created_at, product, model_json, paths, seed, method, h_factor,
	mc_value, mc_delta, analytic_value, analytic_delta, elapsed_ns FROM runs`

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// List returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r         Run
		createdAt string
		model     string
		seed      int64
		elapsed   int64
	)
	err := sc.Scan(&r.ID, &createdAt, &r.Product, &model, &r.Paths, &seed, &r.Method, &r.HFactor,
		&r.Value, &r.Delta, &r.AnalyticValue, &r.AnalyticDelta, &elapsed)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	r.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(model), &r.Model); err != nil {
		return Run{}, fmt.Errorf("unmarshal model: %w", err)
	}
	r.Seed = uint64(seed)
	r.Elapsed = time.Duration(elapsed)
	return r, nil
}
