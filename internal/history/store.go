// Package history persists finished review runs in a local SQLite database
// so past runs can be listed and re-rendered without re-scanning.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/revizor/internal/review"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at      TEXT NOT NULL,
	path            TEXT NOT NULL,
	files_reviewed  INTEGER NOT NULL,
	issues_found    INTEGER NOT NULL,
	security_issues INTEGER NOT NULL,
	report          BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Entry is one row of the run list, without the full report payload.
type Entry struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Path           string    `json:"path"`
	FilesReviewed  int       `json:"files_reviewed"`
	IssuesFound    int       `json:"issues_found"`
	SecurityIssues int       `json:"security_issues"`
}

// Open creates or opens the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// modernc sqlite serializes writes; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save stores a finished report and returns its run id.
func (s *Store) Save(ctx context.Context, r *review.Report) (int64, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, path, files_reviewed, issues_found, security_issues, report)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Path, r.FilesReviewed, r.IssuesFound, r.SecurityIssues, payload)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. limit <= 0 means 20.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, path, files_reviewed, issues_found, security_issues
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created, &e.Path, &e.FilesReviewed, &e.IssuesFound, &e.SecurityIssues); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads the full report for a run id.
func (s *Store) Get(ctx context.Context, id int64) (*review.Report, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT report FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", id, err)
	}

	var r review.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decode run %d: %w", id, err)
	}
	return &r, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
