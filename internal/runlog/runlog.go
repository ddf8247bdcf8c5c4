package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ── Ingestion run history ──────────────────────────────────
// Each ingestion pipeline run is recorded in a small local SQLite
// database so operators can see when the dataset was loaded and
// how many rows made it in.

// Run is one historical ingestion run.
type Run struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Status       string    `json:"status"` // "success" | "error"
	RowsRead     int       `json:"rowsRead"`
	RowsSkipped  int       `json:"rowsSkipped"`
	RowsInserted int64     `json:"rowsInserted"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
}

// Store persists ingestion runs.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the run-log database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create runlog directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to a single connection
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS ingest_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		rows_read INTEGER NOT NULL DEFAULT 0,
		rows_skipped INTEGER NOT NULL DEFAULT 0,
		rows_inserted INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	)`)
	return err
}

// Record inserts one finished run. The run's ID is assigned here.
func (s *Store) Record(ctx context.Context, run *Run) error {
	run.ID = uuid.New().String()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, source, status, rows_read, rows_skipped,
		 rows_inserted, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Status, run.RowsRead, run.RowsSkipped,
		run.RowsInserted, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}
	return nil
}

// List returns all recorded runs, most recent first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, source, status, rows_read, rows_skipped, rows_inserted,
		 error, started_at, finished_at
		 FROM ingest_runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Source, &r.Status, &r.RowsRead, &r.RowsSkipped,
			&r.RowsInserted, &r.Error, &r.StartedAt, &r.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
