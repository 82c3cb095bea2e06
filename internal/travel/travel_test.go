package travel

import (
	"testing"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
)

var testToday = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func event(id int64, date, origin, dest string) rawstore.FlightEvent {
	return rawstore.FlightEvent{
		ID:           id,
		FlightDate:   date,
		Origin:       origin,
		Destination:  dest,
		Airline:      "United",
		FlightNumber: "UA100",
		Miles:        Miles(origin, dest),
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	// Depart March 1, return March 10: a 10-day trip, both endpoints
	// counted.
	trips, flights := Segment([]rawstore.FlightEvent{
		event(1, "2026-03-01", "SFO", "NRT"),
		event(2, "2026-03-10", "NRT", "SFO"),
	}, "SFO", 30, testToday)

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}
	trip := trips[0]
	if trip.TripID != "2026-001" {
		t.Errorf("trip id = %s, want 2026-001", trip.TripID)
	}
	if trip.DepartureDate != "2026-03-01" || trip.ReturnDate != "2026-03-10" {
		t.Errorf("span = %s..%s", trip.DepartureDate, trip.ReturnDate)
	}
	if trip.DurationDays != 10 {
		t.Errorf("duration = %d, want 10", trip.DurationDays)
	}
	if trip.FlightCount != 2 {
		t.Errorf("flight count = %d, want 2", trip.FlightCount)
	}
	if trip.DestinationCity != "Tokyo" || trip.DestinationCountry != "Japan" {
		t.Errorf("destination = %s, %s", trip.DestinationCity, trip.DestinationCountry)
	}
	if trip.ForcedClose || trip.DataGap {
		t.Errorf("clean round trip flagged: forced=%v gap=%v", trip.ForcedClose, trip.DataGap)
	}

	for _, f := range flights {
		if f.TripID != trip.TripID {
			t.Errorf("flight %s->%s has trip id %q", f.Origin, f.Destination, f.TripID)
		}
	}
}

func TestSegmentConnectionIsNotDestination(t *testing.T) {
	// SFO -> MIA -> GRU -> MIA -> SFO: MIA is a connection hub, so the
	// headline destination is São Paulo.
	trips, _ := Segment([]rawstore.FlightEvent{
		event(1, "2026-03-01", "SFO", "MIA"),
		event(2, "2026-03-01", "MIA", "GRU"),
		event(3, "2026-03-10", "GRU", "MIA"),
		event(4, "2026-03-10", "MIA", "SFO"),
	}, "SFO", 30, testToday)

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}
	if trips[0].DestinationCity != "São Paulo" {
		t.Errorf("destination = %s, want São Paulo", trips[0].DestinationCity)
	}
	if trips[0].FlightCount != 4 {
		t.Errorf("flight count = %d, want 4", trips[0].FlightCount)
	}
}

func TestSegmentGapForceCloses(t *testing.T) {
	trips, _ := Segment([]rawstore.FlightEvent{
		event(1, "2026-01-05", "SFO", "LHR"),
		// No return; next flight from home 60 days later.
		event(2, "2026-03-10", "SFO", "NRT"),
		event(3, "2026-03-20", "NRT", "SFO"),
	}, "SFO", 30, testToday)

	if len(trips) != 2 {
		t.Fatalf("trips = %d, want 2", len(trips))
	}

	first := trips[0]
	if !first.ForcedClose {
		t.Error("stale trip should be force-closed")
	}
	if first.ReturnDate != "2026-01-05" {
		t.Errorf("forced return date = %s, want last flight date", first.ReturnDate)
	}

	second := trips[1]
	if second.ForcedClose || second.DataGap {
		t.Errorf("fresh trip flagged: forced=%v gap=%v", second.ForcedClose, second.DataGap)
	}
}

func TestSegmentUnexpectedOriginFlagsDataGap(t *testing.T) {
	// Trip opens to LHR, then a flight appears from CDG: a leg is
	// missing. The new trip carries the DataGap flag.
	trips, _ := Segment([]rawstore.FlightEvent{
		event(1, "2026-03-01", "SFO", "LHR"),
		event(2, "2026-03-05", "CDG", "SFO"),
	}, "SFO", 30, testToday)

	if len(trips) != 2 {
		t.Fatalf("trips = %d, want 2", len(trips))
	}
	if !trips[0].ForcedClose {
		t.Error("first trip should be force-closed")
	}
	if !trips[1].DataGap {
		t.Error("second trip should be flagged as a data gap")
	}
}

func TestSegmentFirstFlightNotFromHome(t *testing.T) {
	trips, _ := Segment([]rawstore.FlightEvent{
		event(1, "2026-03-01", "JFK", "SFO"),
	}, "SFO", 30, testToday)

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}
	if !trips[0].DataGap {
		t.Error("trip starting away from home should be flagged")
	}
}

func TestSegmentOpenTrip(t *testing.T) {
	trips, _ := Segment([]rawstore.FlightEvent{
		event(1, "2026-05-25", "SFO", "LHR"),
	}, "SFO", 30, testToday)

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}
	trip := trips[0]
	if trip.ReturnDate != "" {
		t.Errorf("open trip has return date %q", trip.ReturnDate)
	}
	if trip.DurationDays != 8 {
		t.Errorf("provisional duration = %d, want 8 (departure day through today)", trip.DurationDays)
	}
}

func TestSegmentEveryFlightInExactlyOneTrip(t *testing.T) {
	events := []rawstore.FlightEvent{
		event(1, "2026-01-05", "SFO", "LHR"),
		event(2, "2026-01-12", "LHR", "SFO"),
		event(3, "2026-02-01", "SFO", "NRT"),
		event(4, "2026-02-03", "NRT", "ICN"),
		event(5, "2026-02-10", "ICN", "SFO"),
		event(6, "2026-04-01", "JFK", "SFO"), // data gap
		event(7, "2026-05-25", "SFO", "SYD"), // still open
	}

	trips, flights := Segment(events, "SFO", 30, testToday)

	if len(flights) != len(events) {
		t.Fatalf("flights out = %d, want %d", len(flights), len(events))
	}

	tripIDs := map[string]bool{}
	for _, tr := range trips {
		tripIDs[tr.TripID] = true
	}
	counts := map[string]int{}
	for _, f := range flights {
		if !tripIDs[f.TripID] {
			t.Errorf("flight %s assigned to unknown trip %q", f.FlightNumber, f.TripID)
		}
		counts[f.TripID]++
	}
	total := 0
	for _, tr := range trips {
		if counts[tr.TripID] != tr.FlightCount {
			t.Errorf("trip %s: %d flights assigned, FlightCount %d", tr.TripID, counts[tr.TripID], tr.FlightCount)
		}
		total += tr.FlightCount
	}
	if total != len(events) {
		t.Errorf("flight counts sum to %d, want %d", total, len(events))
	}
}

func TestSegmentDeterministic(t *testing.T) {
	events := []rawstore.FlightEvent{
		event(2, "2026-03-01", "MIA", "GRU"),
		event(4, "2026-03-10", "MIA", "SFO"),
		event(1, "2026-03-01", "SFO", "MIA"),
		event(3, "2026-03-10", "GRU", "MIA"),
	}
	// Input order differs; sorted (date, id) order decides.
	trips, _ := Segment(events, "SFO", 30, testToday)
	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}
	if trips[0].DestinationCity != "São Paulo" {
		t.Errorf("destination = %s, want São Paulo", trips[0].DestinationCity)
	}
}

func TestSegmentEmpty(t *testing.T) {
	trips, flights := Segment(nil, "SFO", 30, testToday)
	if len(trips) != 0 || len(flights) != 0 {
		t.Fatalf("empty input: trips=%d flights=%d", len(trips), len(flights))
	}
}

func TestMiles(t *testing.T) {
	got := Miles("SFO", "NRT")
	// Great-circle SFO-NRT is about 5130 statute miles.
	if got < 5000 || got > 5300 {
		t.Errorf("SFO-NRT = %d miles, want ~5130", got)
	}

	if Miles("SFO", "XXX") != 0 {
		t.Error("unknown airport should yield 0 miles")
	}
	if Miles("SFO", "SFO") != 0 {
		t.Error("same airport should yield 0 miles")
	}
}

func TestCityCountry(t *testing.T) {
	city, country := CityCountry("GRU")
	if city != "São Paulo" || country != "Brazil" {
		t.Errorf("GRU = %s, %s", city, country)
	}
	city, country = CityCountry("ZZZ")
	if city != "ZZZ" || country != "" {
		t.Errorf("unknown code = %s, %s, want code itself", city, country)
	}
}
