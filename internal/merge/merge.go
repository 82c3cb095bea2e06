// Package merge folds canonicalized observations into one Day record
// per calendar date. The fold is deterministic and order independent:
// conflicts resolve by per-field source priority, then by observation
// time within a source, then by lexical source order.
package merge

import (
	"fmt"
	"sort"

	"github.com/sadopc/daylog/internal/mapper"
	"github.com/sadopc/daylog/internal/schema"
)

// Day is the merged ledger record for one calendar date. Fields absent
// from the map were reported by no source.
type Day struct {
	Date   string
	Fields map[schema.Field]schema.Value
}

func (d Day) Has(f schema.Field) bool {
	_, ok := d.Fields[f]
	return ok
}

func (d Day) Float(f schema.Field) (float64, bool) {
	v, ok := d.Fields[f]
	if !ok || v.Kind != schema.KindFloat {
		return 0, false
	}
	return v.Float, true
}

func (d Day) Int(f schema.Field) (int, bool) {
	v, ok := d.Fields[f]
	if !ok || v.Kind != schema.KindInt {
		return 0, false
	}
	return v.Int, true
}

// Bool returns false for absent habit fields: habit tracking defaults
// to "didn't", unlike measurements which stay absent.
func (d Day) Bool(f schema.Field) bool {
	v, ok := d.Fields[f]
	return ok && v.Kind == schema.KindBool && v.Bool
}

func (d Day) Str(f schema.Field) (string, bool) {
	v, ok := d.Fields[f]
	if !ok || (v.Kind != schema.KindString && v.Kind != schema.KindEnum) {
		return "", false
	}
	return v.Str, true
}

// Violation records a merged value that failed the post-merge range
// recheck. The field is dropped from its Day; the rest of the Day is
// unaffected.
type Violation struct {
	Date  string
	Field schema.Field
	Err   error
}

func (v Violation) Error() string {
	return fmt.Sprintf("invariant violation: %s %s: %v", v.Date, v.Field, v.Err)
}

// Merge folds observations into a sparse map keyed by date. Dates with
// no observations produce no entry.
func Merge(obs []mapper.Mapped) (map[string]Day, []Violation) {
	byDate := make(map[string]map[schema.Field][]mapper.Mapped)
	for _, m := range obs {
		fields, ok := byDate[m.Date]
		if !ok {
			fields = make(map[schema.Field][]mapper.Mapped)
			byDate[m.Date] = fields
		}
		fields[m.Field] = append(fields[m.Field], m)
	}

	days := make(map[string]Day, len(byDate))
	var violations []Violation

	for date, fields := range byDate {
		day := Day{Date: date, Fields: make(map[schema.Field]schema.Value, len(fields))}
		for f, candidates := range fields {
			winner := resolve(f, candidates)
			// Defensive recheck: the mapper validated on the way in, but
			// the merged value must satisfy the range invariant on the
			// way out too.
			if err := schema.Validate(f, winner.Value); err != nil {
				violations = append(violations, Violation{Date: date, Field: f, Err: err})
				continue
			}
			day.Fields[f] = winner.Value
		}
		if len(day.Fields) > 0 {
			days[date] = day
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Date != violations[j].Date {
			return violations[i].Date < violations[j].Date
		}
		return violations[i].Field < violations[j].Field
	})
	return days, violations
}

// resolve picks the winning observation for one (date, field) slot.
// The ordering is total: source priority rank, then later observation
// time, then lexical source name, then the rendered value as a final
// guard. Identical inputs always produce the same winner regardless of
// slice order.
func resolve(f schema.Field, candidates []mapper.Mapped) mapper.Mapped {
	winner := candidates[0]
	for _, c := range candidates[1:] {
		if beats(f, c, winner) {
			winner = c
		}
	}
	return winner
}

func beats(f schema.Field, a, b mapper.Mapped) bool {
	ra, rb := schema.PriorityRank(f, a.Source), schema.PriorityRank(f, b.Source)
	if ra != rb {
		return ra < rb
	}
	if !a.ObservedAt.Equal(b.ObservedAt) {
		return a.ObservedAt.After(b.ObservedAt)
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.Value.String() < b.Value.String()
}
