// Package mapper canonicalizes raw observations. Each source has a
// static table mapping its raw column names onto canonical fields with
// an explicit unit conversion and the registry's validity check. The
// mapper is pure: a bad row yields a RowError and is excluded, it
// never aborts a batch.
package mapper

import (
	"fmt"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

// Mapped is one canonicalized data point ready for merging.
type Mapped struct {
	Date       string // YYYY-MM-DD
	Field      schema.Field
	Value      schema.Value
	Source     string
	ObservedAt time.Time
}

// RowError describes one rejected raw row.
type RowError struct {
	Date   string
	Source string
	Field  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("mapping error: %s %s/%s: %s", e.Date, e.Source, e.Field, e.Reason)
}

// Map canonicalizes a single raw observation. A row may fan out into
// several canonical values (a readiness score also yields a stress
// bucket). Raw columns not present in the source's table are not an
// error; the caller counts them as skipped.
func Map(o rawstore.Observation) ([]Mapped, *RowError, bool) {
	table, ok := tables[o.Source]
	if !ok {
		return nil, nil, false
	}
	mappings, ok := table[o.Field]
	if !ok {
		return nil, nil, false
	}

	if _, err := time.Parse("2006-01-02", o.Date); err != nil {
		return nil, &RowError{Date: o.Date, Source: o.Source, Field: o.Field, Reason: "unparseable date"}, true
	}

	var out []Mapped
	for _, m := range mappings {
		v, err := m.Convert(o.Value)
		if err != nil {
			return nil, &RowError{Date: o.Date, Source: o.Source, Field: o.Field, Reason: err.Error()}, true
		}
		if err := schema.Validate(m.Field, v); err != nil {
			return nil, &RowError{Date: o.Date, Source: o.Source, Field: o.Field, Reason: err.Error()}, true
		}
		out = append(out, Mapped{
			Date:       o.Date,
			Field:      m.Field,
			Value:      v,
			Source:     o.Source,
			ObservedAt: o.ObservedAt,
		})
	}
	return out, nil, true
}

// MapAll canonicalizes a batch. Returns the mapped values, the per-row
// errors, and the count of raw columns no table knows about.
func MapAll(obs []rawstore.Observation) ([]Mapped, []RowError, int) {
	var mapped []Mapped
	var errs []RowError
	skipped := 0

	for _, o := range obs {
		vals, rowErr, known := Map(o)
		if !known {
			skipped++
			continue
		}
		if rowErr != nil {
			errs = append(errs, *rowErr)
			continue
		}
		mapped = append(mapped, vals...)
	}
	return mapped, errs, skipped
}
