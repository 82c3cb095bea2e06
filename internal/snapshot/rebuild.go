package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/daylog/internal/config"
	"github.com/sadopc/daylog/internal/mapper"
	"github.com/sadopc/daylog/internal/merge"
	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/score"
	"github.com/sadopc/daylog/internal/travel"
)

// Report accumulates every non-fatal issue a rebuild encountered.
// Row- and field-level problems never abort the run; they are counted
// here and surfaced to the operator.
type Report struct {
	Observations        int
	RowsMapped          int
	SkippedColumns      int
	MappingErrors       int
	InvariantViolations int
	DataGaps            int
	Days                int
	Trips               int
	Flights             int

	RowErrors  []mapper.RowError
	Violations []merge.Violation
}

// Summary renders the operator-facing run report.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d observations -> %d days, %d trips, %d flights\n",
		r.Observations, r.Days, r.Trips, r.Flights)
	fmt.Fprintf(&b, "mapping errors: %d, invariant violations: %d, data gaps: %d, unmapped columns: %d",
		r.MappingErrors, r.InvariantViolations, r.DataGaps, r.SkippedColumns)
	for _, e := range r.RowErrors {
		fmt.Fprintf(&b, "\n  warn: %s", e.Error())
	}
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "\n  warn: %s", v.Error())
	}
	return b.String()
}

// Rebuild recomputes the full snapshot from the raw store and writes
// the tracker.json artifact and the daily summary CSV. Only a
// StructuralError (raw store unreadable) is returned as an error;
// everything row-scoped lands in the report.
func Rebuild(st *rawstore.Store, cfg *config.Config, now time.Time) (*Snapshot, *Report, error) {
	snap, report, err := Build(st, cfg, now)
	if err != nil {
		return nil, nil, err
	}

	if err := WriteJSON(snap, cfg.TrackerJSONPath()); err != nil {
		return nil, nil, err
	}
	if cfg.DashboardDataDir != "" {
		if err := WriteJSON(snap, filepath.Join(cfg.DashboardDataDir, "tracker.json")); err != nil {
			return nil, nil, err
		}
	}
	if err := WriteCSV(snap, cfg.DailySummaryCSVPath()); err != nil {
		return nil, nil, err
	}
	if err := WriteWeeklyCSV(snap, cfg.WeeklySummaryCSVPath()); err != nil {
		return nil, nil, err
	}
	return snap, report, nil
}

// Build runs the in-memory pipeline: map, merge, segment, score.
func Build(st *rawstore.Store, cfg *config.Config, now time.Time) (*Snapshot, *Report, error) {
	report := &Report{}

	obs, err := st.ListObservations(rawstore.ObservationFilter{})
	if err != nil {
		return nil, nil, err
	}
	report.Observations = len(obs)

	mapped, rowErrs, skipped := mapper.MapAll(obs)
	report.RowsMapped = len(mapped)
	report.SkippedColumns = skipped
	report.MappingErrors = len(rowErrs)
	report.RowErrors = rowErrs

	days, violations := merge.Merge(mapped)
	report.Days = len(days)
	report.InvariantViolations = len(violations)
	report.Violations = violations

	events, err := st.ListFlightEvents()
	if err != nil {
		return nil, nil, err
	}
	trips, flights := travel.Segment(events, cfg.HomeAirport, cfg.MaxGapDays, now)
	for _, t := range trips {
		if t.DataGap {
			report.DataGaps++
		}
	}

	manual, err := st.ListManualTrips()
	if err != nil {
		return nil, nil, err
	}
	for _, m := range manual {
		trips = append(trips, travel.Trip{
			TripID:             m.TripID,
			DepartureDate:      m.DepartureDate,
			ReturnDate:         m.ReturnDate,
			DestinationCity:    m.DestinationCity,
			DestinationCountry: m.DestinationCountry,
			Purpose:            m.Purpose,
			DurationDays:       m.DurationDays,
		})
	}
	report.Trips = len(trips)
	report.Flights = len(flights)

	snap := &Snapshot{
		Days:      make(map[string]Day, len(days)),
		Travel:    Travel{Trips: trips, Flights: flights},
		Rollup:    score.Aggregate(days, trips),
		Generated: now.UTC().Format(time.RFC3339),
	}
	for date, d := range days {
		snap.Days[date] = projectDay(d)
	}

	return snap, report, nil
}
