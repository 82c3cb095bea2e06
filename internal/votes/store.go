// Package votes is the small HTTP service that records thumbs up/down
// votes on logged activities, backed by its own sqlite database.
package votes

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Vote is one person's current vote on one activity. Value is +1 or -1;
// re-voting replaces the previous row.
type Vote struct {
	ActivityID string `json:"activityId"`
	Person     string `json:"person"`
	Value      int    `json:"value"`
	Reason     string `json:"reason,omitempty"`
	UpdatedAt  string `json:"updatedAt"`
}

// Store wraps the votes database.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create votes db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open votes db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure votes db: %w", err)
	}

	ddl := `CREATE TABLE IF NOT EXISTS votes (
		activity_id TEXT NOT NULL,
		person      TEXT NOT NULL,
		value       INTEGER NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (activity_id, person)
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create votes table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert records or replaces a vote.
func (s *Store) Upsert(v Vote) error {
	v.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO votes (activity_id, person, value, reason, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(activity_id, person) DO UPDATE SET
			value = excluded.value,
			reason = excluded.reason,
			updated_at = excluded.updated_at`,
		v.ActivityID, v.Person, v.Value, v.Reason, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

// All returns every vote grouped by activity id.
func (s *Store) All() (map[string][]Vote, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, person, value, reason, updated_at
		FROM votes ORDER BY activity_id, person`)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	out := map[string][]Vote{}
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ActivityID, &v.Person, &v.Value, &v.Reason, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		out[v.ActivityID] = append(out[v.ActivityID], v)
	}
	return out, rows.Err()
}
