// Package catalog persists the load outcome of every logical dataset so the
// dashboard (and operators) can see what resolved, when, and why something
// is missing — across restarts.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Dataset load statuses.
const (
	StatusOK         = "ok"
	StatusMissing    = "missing"
	StatusParseError = "parse_error"
	StatusIOError    = "io_error"
)

// Record is one row of the datasets table.
type Record struct {
	DatasetID  string  `json:"dataset_id"`
	GroupID    string  `json:"group"`
	Kind       string  `json:"kind"`
	Path       string  `json:"path,omitempty"`
	RowCount   int     `json:"row_count"`
	FileMtime  *int64  `json:"file_mtime,omitempty"`
	LastStatus string  `json:"last_status"`
	LastError  *string `json:"last_error,omitempty"`
	UpdatedAt  int64   `json:"updated_at"`
}

// DB manages the datasets SQLite table.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// datasets table exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS datasets (
		dataset_id   TEXT PRIMARY KEY,
		group_id     TEXT NOT NULL,
		kind         TEXT NOT NULL,
		path         TEXT NOT NULL DEFAULT '',
		row_count    INTEGER NOT NULL DEFAULT 0,
		file_mtime   INTEGER,
		last_status  TEXT NOT NULL,
		last_error   TEXT,
		updated_at   INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create datasets table: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Upsert records a dataset load outcome, replacing any previous row for the
// same dataset ID.
func (d *DB) Upsert(rec Record) error {
	const q = `INSERT INTO datasets
		(dataset_id, group_id, kind, path, row_count, file_mtime, last_status, last_error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dataset_id) DO UPDATE SET
			group_id = excluded.group_id,
			kind = excluded.kind,
			path = excluded.path,
			row_count = excluded.row_count,
			file_mtime = excluded.file_mtime,
			last_status = excluded.last_status,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at`

	_, err := d.db.Exec(q, rec.DatasetID, rec.GroupID, rec.Kind, rec.Path,
		rec.RowCount, rec.FileMtime, rec.LastStatus, rec.LastError, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.DatasetID, err)
	}
	return nil
}

// List returns all rows ordered by dataset_id.
func (d *DB) List() ([]Record, error) {
	rows, err := d.db.Query(`SELECT dataset_id, group_id, kind, path, row_count,
		file_mtime, last_status, last_error, updated_at
		FROM datasets ORDER BY dataset_id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.DatasetID, &rec.GroupID, &rec.Kind, &rec.Path,
			&rec.RowCount, &rec.FileMtime, &rec.LastStatus, &rec.LastError, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns the record for a single dataset ID.
func (d *DB) Get(datasetID string) (*Record, error) {
	var rec Record
	err := d.db.QueryRow(`SELECT dataset_id, group_id, kind, path, row_count,
		file_mtime, last_status, last_error, updated_at
		FROM datasets WHERE dataset_id = ?`, datasetID).
		Scan(&rec.DatasetID, &rec.GroupID, &rec.Kind, &rec.Path,
			&rec.RowCount, &rec.FileMtime, &rec.LastStatus, &rec.LastError, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", datasetID, err)
	}
	return &rec, nil
}
