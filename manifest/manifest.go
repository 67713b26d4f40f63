// Package manifest records merge runs and the files they produced in a
// SQLite database.
//
// The pure Go driver (modernc.org/sqlite) is used by default; building with
// the cgo_sqlite tag switches to github.com/mattn/go-sqlite3.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    data_file   TEXT NOT NULL,
    templates   TEXT NOT NULL,
    output_dir  TEXT NOT NULL,
    dry_run     INTEGER NOT NULL DEFAULT 0,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    status      TEXT NOT NULL DEFAULT 'running',
    generated   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS outputs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      INTEGER NOT NULL REFERENCES runs(id),
    row_index   INTEGER NOT NULL,
    template    TEXT NOT NULL,
    base_name   TEXT NOT NULL,
    source      TEXT NOT NULL,
    file_name   TEXT NOT NULL,
    unmatched   TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outputs_run ON outputs(run_id);
`

// Run statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const (
	timeLayout = time.RFC3339Nano
	// unit separator between unmatched placeholder keys
	unmatchedSep = "\x1f"
)

// Entry is one generated file.
type Entry struct {
	Row       int
	Template  string
	BaseName  string
	Source    string
	FileName  string
	Unmatched []string
	CreatedAt time.Time
}

// RunInfo describes a run when it starts.
type RunInfo struct {
	DataFile  string
	Templates []string
	OutputDir string
	DryRun    bool
}

// RunSummary is a stored run.
type RunSummary struct {
	ID int64
	RunInfo
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Generated  int
}

// Store is an open manifest database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the manifest at path.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup manifest schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun inserts a new run and returns a handle that records its outputs.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (*Run, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO runs (data_file, templates, output_dir, dry_run, started_at) VALUES (?, ?, ?, ?, ?)
    `, info.DataFile, strings.Join(info.Templates, "\n"), info.OutputDir, info.DryRun, s.now().UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read run id: %w", err)
	}
	return &Run{store: s, id: id}, nil
}

// Runs returns all runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, data_file, templates, output_dir, dry_run, started_at, COALESCE(finished_at, ''), status, generated
        FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r                 RunSummary
			templates         string
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.DataFile, &templates, &r.OutputDir, &r.DryRun, &started, &finished, &r.Status, &r.Generated); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if templates != "" {
			r.Templates = strings.Split(templates, "\n")
		}
		r.StartedAt, _ = time.Parse(timeLayout, started)
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Entries returns the outputs of a run in the order they were recorded.
func (s *Store) Entries(ctx context.Context, runID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT row_index, template, base_name, source, file_name, unmatched, created_at
        FROM outputs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outputs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			unmatched string
			created   string
		)
		if err := rows.Scan(&e.Row, &e.Template, &e.BaseName, &e.Source, &e.FileName, &unmatched, &created); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		if unmatched != "" {
			e.Unmatched = strings.Split(unmatched, unmatchedSep)
		}
		e.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Run records the outputs of one merge run.
type Run struct {
	store *Store
	id    int64
}

// ID returns the run's row id.
func (r *Run) ID() int64 {
	return r.id
}

// Record stores one generated file.
func (r *Run) Record(ctx context.Context, e Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = r.store.now()
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	_, err = tx.ExecContext(ctx, `
        INSERT INTO outputs (run_id, row_index, template, base_name, source, file_name, unmatched, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, r.id, e.Row, e.Template, e.BaseName, e.Source, e.FileName, strings.Join(e.Unmatched, unmatchedSep), created.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert output: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE runs SET generated = generated + 1 WHERE id = ?`, r.id); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return tx.Commit()
}

// Finish marks the run done, or failed when runErr is not nil.
func (r *Run) Finish(ctx context.Context, runErr error) error {
	status := StatusDone
	if runErr != nil {
		status = StatusFailed
	}
	_, err := r.store.db.ExecContext(ctx, `UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, r.store.now().UTC().Format(timeLayout), r.id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}
