// Package store provides SQLite-backed persistence for method presets
// and run history.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chromalab/go-chroma/method"
	"github.com/chromalab/go-chroma/results"
)

// Store handles SQLite database operations for presets and run records.
type Store struct {
	db *sql.DB
}

// Preset is a named instrument method with an optional sample profile.
type Preset struct {
	Name      string                `json:"name"`
	Params    *method.Parameters    `json:"params"`
	Profile   *method.SampleProfile `json:"profile,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// RunRecord summarises a stored simulation run.
type RunRecord struct {
	RunID            string    `json:"run_id"`
	MethodName       string    `json:"method_name"`
	SampleName       string    `json:"sample_name"`
	Seed             int64     `json:"seed"`
	Status           string    `json:"status"`
	SimulationTimeMs float64   `json:"simulation_time_ms"`
	TotalPeaks       int       `json:"total_peaks"`
	CreatedAt        time.Time `json:"created_at"`
}

// Open creates a Store backed by the database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS presets (
		name TEXT PRIMARY KEY,
		params TEXT NOT NULL,
		profile TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		method_name TEXT NOT NULL,
		sample_name TEXT NOT NULL DEFAULT '',
		seed INTEGER NOT NULL,
		status TEXT NOT NULL,
		simulation_time_ms REAL NOT NULL DEFAULT 0,
		total_peaks INTEGER NOT NULL DEFAULT 0,
		result TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_method ON runs(method_name);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePreset inserts or replaces a named preset.
func (s *Store) SavePreset(p *Preset) error {
	paramsJSON, err := json.Marshal(p.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	var profileJSON sql.NullString
	if p.Profile != nil {
		b, err := json.Marshal(p.Profile)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		profileJSON = sql.NullString{String: string(b), Valid: true}
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO presets (name, params, profile, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET params = excluded.params,
		 profile = excluded.profile, updated_at = excluded.updated_at`,
		p.Name, string(paramsJSON), profileJSON, now, now,
	)
	return err
}

// GetPreset retrieves a preset by name.
func (s *Store) GetPreset(name string) (*Preset, error) {
	row := s.db.QueryRow(
		`SELECT name, params, profile, created_at, updated_at
		 FROM presets WHERE name = ?`, name,
	)

	var p Preset
	var paramsJSON string
	var profileJSON sql.NullString
	err := row.Scan(&p.Name, &paramsJSON, &profileJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	params, err := method.ParseParameters([]byte(paramsJSON))
	if err != nil {
		return nil, fmt.Errorf("parse stored params: %w", err)
	}
	p.Params = params

	if profileJSON.Valid {
		profile, err := method.ParseSampleProfile([]byte(profileJSON.String))
		if err != nil {
			return nil, fmt.Errorf("parse stored profile: %w", err)
		}
		p.Profile = profile
	}
	return &p, nil
}

// ListPresets returns all preset names ordered alphabetically.
func (s *Store) ListPresets() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeletePreset removes a preset by name.
func (s *Store) DeletePreset(name string) error {
	res, err := s.db.Exec(`DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SaveRun stores a completed run result and returns its record. A run
// id is assigned if the result does not carry one; the input result is
// never modified.
func (s *Store) SaveRun(r *results.RunResult) (*RunRecord, error) {
	stored := *r
	if stored.RunID == "" {
		stored.RunID = uuid.NewString()
	}
	resultJSON, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	totalPeaks := 0
	for _, rep := range r.Kpis {
		totalPeaks += rep.TotalPeaks
	}

	rec := &RunRecord{
		RunID:            stored.RunID,
		MethodName:       r.Metadata.MethodName,
		SampleName:       r.Metadata.SampleName,
		Seed:             r.Metadata.Seed,
		Status:           r.Metadata.Status,
		SimulationTimeMs: r.SimulationTimeMs,
		TotalPeaks:       totalPeaks,
		CreatedAt:        time.Now().UTC(),
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, method_name, sample_name, seed, status,
		 simulation_time_ms, total_peaks, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.MethodName, rec.SampleName, rec.Seed, rec.Status,
		rec.SimulationTimeMs, rec.TotalPeaks, string(resultJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRun retrieves a stored run result by id.
func (s *Store) GetRun(runID string) (*results.RunResult, error) {
	row := s.db.QueryRow(`SELECT result FROM runs WHERE run_id = ?`, runID)

	var resultJSON string
	if err := row.Scan(&resultJSON); err != nil {
		return nil, err
	}

	var r results.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &r); err != nil {
		return nil, fmt.Errorf("parse stored result: %w", err)
	}
	return &r, nil
}

// RecentRuns returns the most recent run records.
func (s *Store) RecentRuns(limit int) ([]*RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, method_name, sample_name, seed, status,
		 simulation_time_ms, total_peaks, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		var rec RunRecord
		err := rows.Scan(&rec.RunID, &rec.MethodName, &rec.SampleName, &rec.Seed,
			&rec.Status, &rec.SimulationTimeMs, &rec.TotalPeaks, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteRun removes a stored run by id.
func (s *Store) DeleteRun(runID string) error {
	_, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	return err
}
