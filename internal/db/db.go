package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chmdznr/oss-component-checker/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the history database used when none is given
const DefaultPath = "uicheck.db"

// DB represents a database connection
type DB struct {
	*sql.DB
}

// New opens (creating if needed) the history database at path
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sqlDB}
	if err := db.initialize(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize database %s: %w", path, err)
	}

	return db, nil
}

// initialize creates the necessary tables if they don't exist
func (db *DB) initialize() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			base_dir TEXT,
			backend TEXT,
			checked_at TIMESTAMP,
			expected_count INTEGER,
			missing_count INTEGER,
			duration_ms INTEGER
		);
		CREATE TABLE IF NOT EXISTS missing_files (
			run_id INTEGER,
			position INTEGER,
			file_name TEXT,
			PRIMARY KEY (run_id, position),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);
		CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name, checked_at);
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`)
	return err
}

// SaveRun stores a run and its missing list in a single transaction
func (db *DB) SaveRun(run *models.Run) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (name, base_dir, backend, checked_at, expected_count, missing_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.Name,
		run.BaseDir,
		run.Backend,
		run.CheckedAt.UTC(),
		run.Expected,
		len(run.Missing),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO missing_files (run_id, position, file_name)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, name := range run.Missing {
		if _, err := stmt.Exec(id, i, name); err != nil {
			return 0, fmt.Errorf("failed to save missing file %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	run.ID = id
	return id, nil
}

// GetRuns returns up to limit runs for name, newest first. Missing lists
// are loaded for each run.
func (db *DB) GetRuns(name string, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, name, base_dir, backend, checked_at, expected_count, duration_ms
		FROM runs
		WHERE name = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		var durationMS int64
		err = rows.Scan(&run.ID, &run.Name, &run.BaseDir, &run.Backend, &run.CheckedAt, &run.Expected, &durationMS)
		if err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, run := range runs {
		if run.Missing, err = db.GetMissing(run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// GetMissing returns the missing files of a run in their reported order
func (db *DB) GetMissing(runID int64) ([]string, error) {
	rows, err := db.Query(`
		SELECT file_name
		FROM missing_files
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missing := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		missing = append(missing, name)
	}
	return missing, rows.Err()
}

// GetStats returns aggregate history for a named check
func (db *DB) GetStats(name string) (*models.Stats, error) {
	var stats models.Stats
	err := db.QueryRow(`
		SELECT
			COUNT(*) as total_runs,
			COUNT(CASE WHEN missing_count = 0 THEN 1 END) as clean_runs,
			COUNT(CASE WHEN missing_count > 0 THEN 1 END) as failed_runs,
			COALESCE(MAX(missing_count), 0) as max_missing
		FROM runs
		WHERE name = ?
	`, name).Scan(
		&stats.TotalRuns,
		&stats.CleanRuns,
		&stats.FailedRuns,
		&stats.MaxMissing,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	runs, err := db.GetRuns(name, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	if len(runs) > 0 {
		stats.LastRun = runs[0]
	}
	return &stats, nil
}
