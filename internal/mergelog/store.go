// Package mergelog persists a local history of produced merge documents.
package mergelog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite merge history database.
type Store struct {
	db *sql.DB
}

// Record is one completed merge.
type Record struct {
	ID           string
	OutputPath   string
	Compact      bool
	SwimFile     string
	BikeFile     string
	RunFile      string
	Activities   int
	TotalSeconds float64
	CreatedAt    int64 // unix nanoseconds
}

// Open opens (and if needed creates) the merge log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open merge log: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS merges (
			merge_id       TEXT PRIMARY KEY,
			output_path    TEXT,
			compact        INTEGER,
			swim_file      TEXT,
			bike_file      TEXT,
			run_file       TEXT,
			activities     INTEGER,
			total_seconds  DOUBLE,
			created_at     BIGINT
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create merge log schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a merge record. If ID is empty a UUID is generated; if
// CreatedAt is zero the current time is used.
func (s *Store) Insert(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO merges (
			merge_id, output_path, compact, swim_file, bike_file, run_file,
			activities, total_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OutputPath, boolToInt(rec.Compact),
		rec.SwimFile, rec.BikeFile, rec.RunFile,
		rec.Activities, rec.TotalSeconds, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merge record: %w", err)
	}
	return nil
}

// Recent returns up to n merge records, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT merge_id, output_path, compact, swim_file, bike_file, run_file,
		       activities, total_seconds, created_at
		FROM merges ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query merge records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var compact int
		if err := rows.Scan(
			&rec.ID, &rec.OutputPath, &compact,
			&rec.SwimFile, &rec.BikeFile, &rec.RunFile,
			&rec.Activities, &rec.TotalSeconds, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan merge record: %w", err)
		}
		rec.Compact = compact != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
