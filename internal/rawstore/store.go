// Package rawstore is the append-only observation store. Every raw row
// an ingestor produces lands here; the rebuild pipeline reads it back
// in full. Rows are immutable once written and deduplicated on
// (date, source, field, value) so re-ingestion is idempotent.
package rawstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &StructuralError{Op: "create db directory", Err: err}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &StructuralError{Op: "open database", Err: err}
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, &StructuralError{Op: fmt.Sprintf("exec pragma %q", p), Err: err}
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &StructuralError{Op: "migrate", Err: err}
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS observations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,
		source      TEXT NOT NULL,
		field       TEXT NOT NULL,
		value       TEXT NOT NULL,
		observed_at TEXT NOT NULL,
		UNIQUE(date, source, field, value)
	);

	CREATE INDEX IF NOT EXISTS idx_observations_date   ON observations(date);
	CREATE INDEX IF NOT EXISTS idx_observations_source ON observations(source);

	CREATE TABLE IF NOT EXISTS flight_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		flight_date   TEXT NOT NULL,
		origin        TEXT NOT NULL,
		destination   TEXT NOT NULL,
		airline       TEXT NOT NULL DEFAULT '',
		flight_number TEXT NOT NULL,
		reservation   TEXT NOT NULL DEFAULT '',
		miles         INTEGER NOT NULL DEFAULT 0,
		UNIQUE(flight_number, reservation, origin, destination)
	);

	CREATE INDEX IF NOT EXISTS idx_flight_events_date ON flight_events(flight_date);

	CREATE TABLE IF NOT EXISTS manual_trips (
		trip_id             TEXT PRIMARY KEY,
		departure_date      TEXT NOT NULL,
		return_date         TEXT NOT NULL DEFAULT '',
		destination_city    TEXT NOT NULL,
		destination_country TEXT NOT NULL DEFAULT '',
		purpose             TEXT NOT NULL DEFAULT 'personal',
		duration_days       INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}
