package rawstore

import (
	"fmt"
	"time"
)

// AppendObservations inserts raw rows, silently skipping rows whose
// (date, source, field, value) key already exists. Returns the number
// of rows actually inserted.
func (s *Store) AppendObservations(obs []Observation) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StructuralError{Op: "begin append", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO observations (date, source, field, value, observed_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, &StructuralError{Op: "prepare append", Err: err}
	}
	defer stmt.Close()

	inserted := 0
	for _, o := range obs {
		ts := o.ObservedAt
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		res, err := stmt.Exec(o.Date, o.Source, o.Field, o.Value, ts.Format(time.RFC3339))
		if err != nil {
			return inserted, fmt.Errorf("append observation %s/%s/%s: %w", o.Date, o.Source, o.Field, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, &StructuralError{Op: "commit append", Err: err}
	}
	return inserted, nil
}

// ListObservations returns rows matching the filter ordered by date,
// then source, then field.
func (s *Store) ListObservations(f ObservationFilter) ([]Observation, error) {
	query := `SELECT id, date, source, field, value, observed_at FROM observations WHERE 1=1`
	var args []any

	if f.Source != "" {
		query += ` AND source = ?`
		args = append(args, f.Source)
	}
	if f.From != "" {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY date, source, field`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StructuralError{Op: "list observations", Err: err}
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		var observedAt string
		if err := rows.Scan(&o.ID, &o.Date, &o.Source, &o.Field, &o.Value, &observedAt); err != nil {
			return nil, &StructuralError{Op: "scan observation", Err: err}
		}
		o.ObservedAt, _ = time.Parse(time.RFC3339, observedAt)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &StructuralError{Op: "iterate observations", Err: err}
	}
	return out, nil
}

// LastDate returns the most recent observation date for a source, or ""
// when the source has no rows yet. Ingestors use it to resume
// incrementally.
func (s *Store) LastDate(source string) (string, error) {
	var d string
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(date), '') FROM observations WHERE source = ?`, source,
	).Scan(&d)
	if err != nil {
		return "", &StructuralError{Op: "last date", Err: err}
	}
	return d, nil
}

// CountBySource returns observation counts keyed by source id.
func (s *Store) CountBySource() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT source, COUNT(*) FROM observations GROUP BY source`)
	if err != nil {
		return nil, &StructuralError{Op: "count by source", Err: err}
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, &StructuralError{Op: "scan count", Err: err}
		}
		out[source] = n
	}
	return out, rows.Err()
}
