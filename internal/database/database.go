package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"slack_file_cleaner/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the audit journal of cleanup runs. Nothing reads it back during a run.
type DB struct {
	*sql.DB
}

type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Weeks      int
	DryRun     bool
	Cutoff     time.Time
	Candidates int
	Deleted    int
	Failed     int
}

type Deletion struct {
	RunID       int64
	FileID      string
	FileName    string
	UploadedAt  time.Time
	Outcome     string
	Error       sql.NullString
	AttemptedAt time.Time
}

// New creates a new database connection and ensures schema is up to date
func New(dbPath string) (*DB, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &DB{db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// StartRun inserts a run row and returns its id
func (db *DB) StartRun(startedAt time.Time, weeks int, dryRun bool, cutoff time.Time) (int64, error) {
	result, err := db.DB.Exec(
		`INSERT INTO runs (started_at, weeks, dry_run, cutoff) VALUES (?, ?, ?, ?)`,
		startedAt.UTC(), weeks, dryRun, cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	logger.Debug.Printf("Started audit run %d (weeks: %d, dry run: %v)", id, weeks, dryRun)
	return id, nil
}

func (db *DB) InsertDeletion(d Deletion) error {
	query := `
		INSERT INTO deletions (
			run_id, file_id, file_name, uploaded_at, outcome, error, attempted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.DB.Exec(query,
		d.RunID, d.FileID, d.FileName, d.UploadedAt.UTC(), d.Outcome, d.Error, d.AttemptedAt.UTC())
	if err != nil {
		logger.Error.Printf("Database error recording deletion of %s: %v", d.FileID, err)
		return err
	}
	return nil
}

// FinishRun stamps the final counters on a run
func (db *DB) FinishRun(runID int64, finishedAt time.Time, candidates, deleted, failed int) error {
	result, err := db.DB.Exec(
		`UPDATE runs SET finished_at = ?, candidates = ?, deleted = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC(), candidates, deleted, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

func (db *DB) GetRun(runID int64) (Run, error) {
	var r Run
	err := db.DB.QueryRow(
		`SELECT id, started_at, finished_at, weeks, dry_run, cutoff, candidates, deleted, failed
		 FROM runs WHERE id = ?`, runID,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Weeks, &r.DryRun, &r.Cutoff, &r.Candidates, &r.Deleted, &r.Failed)
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run %d: %w", runID, err)
	}
	return r, nil
}

func (db *DB) GetDeletions(runID int64) ([]Deletion, error) {
	rows, err := db.DB.Query(
		`SELECT run_id, file_id, file_name, uploaded_at, outcome, error, attempted_at
		 FROM deletions WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query deletions: %w", err)
	}
	defer rows.Close()

	var out []Deletion
	for rows.Next() {
		var d Deletion
		if err := rows.Scan(&d.RunID, &d.FileID, &d.FileName, &d.UploadedAt, &d.Outcome, &d.Error, &d.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deletion: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
