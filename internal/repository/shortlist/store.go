// Package shortlist stores match runs in SQLite.
package shortlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
)

// DefaultListLimit caps ListByJobDescription when limit <= 0.
const DefaultListLimit = 20

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the shortlist database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating shortlist directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			jd_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			top_k_initial INTEGER NOT NULL,
			top_k_final INTEGER NOT NULL,
			min_score_accept REAL NOT NULL,
			variants TEXT NOT NULL,
			soft_failures TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_jd_id ON runs(jd_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS run_items (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			resume_id TEXT NOT NULL,
			title TEXT,
			score REAL NOT NULL,
			distance REAL NOT NULL,
			accepted INTEGER NOT NULL,
			boosted INTEGER NOT NULL,
			PRIMARY KEY (run_id, rank)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save writes a run and its items in one transaction.
func (s *Store) Save(ctx context.Context, run shortlist.Run) error {
	if run.ID == "" || run.JobDescriptionID == "" {
		return fmt.Errorf("run id and jd id are required: %w", domain.ErrInvalidInput)
	}

	variants, err := json.Marshal(run.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	failures, err := json.Marshal(softFailuresOrEmpty(run.SoftFailures))
	if err != nil {
		return fmt.Errorf("marshal soft failures: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, jd_id, created_at, top_k_initial, top_k_final, min_score_accept, variants, soft_failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.JobDescriptionID, run.CreatedAt.UTC().Format(timeLayout),
		run.TopKInitial, run.TopKFinal, run.MinScoreAccept, string(variants), string(failures),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_items (run_id, rank, resume_id, title, score, distance, accepted, boosted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range run.Items {
		if _, err := stmt.ExecContext(ctx,
			run.ID, it.Rank, it.ResumeID, it.Title, it.Score, it.Distance, it.Accepted, it.Boosted,
		); err != nil {
			return fmt.Errorf("insert item %d: %w", it.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// Get returns one run with its items.
func (s *Store) Get(ctx context.Context, runID string) (shortlist.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, jd_id, created_at, top_k_initial, top_k_final, min_score_accept, variants, soft_failures
		FROM runs WHERE id = ?`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shortlist.Run{}, fmt.Errorf("run %s: %w", runID, domain.ErrNotFound)
	}
	if err != nil {
		return shortlist.Run{}, err
	}

	if run.Items, err = s.items(ctx, run.ID); err != nil {
		return shortlist.Run{}, err
	}
	return run, nil
}

// ListByJobDescription returns the newest runs for jdID, items included.
func (s *Store) ListByJobDescription(ctx context.Context, jdID string, limit int) ([]shortlist.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, jd_id, created_at, top_k_initial, top_k_final, min_score_accept, variants, soft_failures
		FROM runs WHERE jd_id = ? ORDER BY created_at DESC, id ASC LIMIT ?`, jdID, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []shortlist.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if runs[i].Items, err = s.items(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) items(ctx context.Context, runID string) ([]shortlist.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, resume_id, title, score, distance, accepted, boosted
		FROM run_items WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("query items for %s: %w", runID, err)
	}
	defer rows.Close()

	var items []shortlist.Item
	for rows.Next() {
		var it shortlist.Item
		var title sql.NullString
		if err := rows.Scan(&it.Rank, &it.ResumeID, &title, &it.Score, &it.Distance, &it.Accepted, &it.Boosted); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Title = title.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (shortlist.Run, error) {
	var (
		run       shortlist.Run
		createdAt string
		variants  string
		failures  string
	)
	err := sc.Scan(&run.ID, &run.JobDescriptionID, &createdAt,
		&run.TopKInitial, &run.TopKFinal, &run.MinScoreAccept, &variants, &failures)
	if errors.Is(err, sql.ErrNoRows) {
		return shortlist.Run{}, err
	}
	if err != nil {
		return shortlist.Run{}, fmt.Errorf("scan run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return shortlist.Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(variants), &run.Variants); err != nil {
		return shortlist.Run{}, fmt.Errorf("decode variants: %w", err)
	}
	if err := json.Unmarshal([]byte(failures), &run.SoftFailures); err != nil {
		return shortlist.Run{}, fmt.Errorf("decode soft failures: %w", err)
	}
	if len(run.SoftFailures) == 0 {
		run.SoftFailures = nil
	}
	return run, nil
}

func softFailuresOrEmpty(f []shortlist.SoftFailure) []shortlist.SoftFailure {
	if f == nil {
		return []shortlist.SoftFailure{}
	}
	return f
}
