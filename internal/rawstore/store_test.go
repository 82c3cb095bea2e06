package rawstore

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func obs(date, source, field, value string) Observation {
	return Observation{
		Date:       date,
		Source:     source,
		Field:      field,
		Value:      value,
		ObservedAt: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestAppendObservations(t *testing.T) {
	s := newTestStore(t)

	n, err := s.AppendObservations([]Observation{
		obs("2026-01-05", "oura", "sleep_score", "88"),
		obs("2026-01-05", "oura", "steps", "9214"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("inserted %d, want 2", n)
	}

	got, err := s.ListObservations(ObservationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d rows, want 2", len(got))
	}
}

func TestAppendIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	batch := []Observation{
		obs("2026-01-05", "oura", "sleep_score", "88"),
		obs("2026-01-05", "oura", "steps", "9214"),
	}
	if _, err := s.AppendObservations(batch); err != nil {
		t.Fatal(err)
	}

	// Same rows again, later observation time: key (date, source,
	// field, value) already exists so nothing is inserted.
	for i := range batch {
		batch[i].ObservedAt = batch[i].ObservedAt.Add(time.Hour)
	}
	n, err := s.AppendObservations(batch)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("re-append inserted %d rows, want 0", n)
	}

	got, _ := s.ListObservations(ObservationFilter{})
	if len(got) != 2 {
		t.Fatalf("store has %d rows after re-append, want 2", len(got))
	}
}

func TestAppendDifferentValueIsNewRow(t *testing.T) {
	s := newTestStore(t)

	s.AppendObservations([]Observation{obs("2026-01-05", "oura", "sleep_score", "88")})
	n, err := s.AppendObservations([]Observation{obs("2026-01-05", "oura", "sleep_score", "90")})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("corrected value inserted %d rows, want 1", n)
	}
}

func TestListObservationsFilter(t *testing.T) {
	s := newTestStore(t)

	s.AppendObservations([]Observation{
		obs("2026-01-05", "oura", "steps", "9000"),
		obs("2026-01-06", "oura", "steps", "8000"),
		obs("2026-01-06", "manual", "mood", "4"),
		obs("2026-01-09", "oura", "steps", "7000"),
	})

	got, err := s.ListObservations(ObservationFilter{Source: "oura", From: "2026-01-06", To: "2026-01-08"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Date != "2026-01-06" {
		t.Fatalf("filter returned %v, want single 2026-01-06 oura row", got)
	}
}

func TestLastDate(t *testing.T) {
	s := newTestStore(t)

	d, err := s.LastDate("oura")
	if err != nil {
		t.Fatal(err)
	}
	if d != "" {
		t.Fatalf("empty store LastDate = %q, want empty", d)
	}

	s.AppendObservations([]Observation{
		obs("2026-01-05", "oura", "steps", "9000"),
		obs("2026-01-08", "oura", "steps", "8000"),
	})
	d, _ = s.LastDate("oura")
	if d != "2026-01-08" {
		t.Fatalf("LastDate = %q, want 2026-01-08", d)
	}
}

func TestCountBySource(t *testing.T) {
	s := newTestStore(t)

	s.AppendObservations([]Observation{
		obs("2026-01-05", "oura", "steps", "9000"),
		obs("2026-01-05", "oura", "sleep_score", "88"),
		obs("2026-01-05", "manual", "mood", "4"),
	})

	counts, err := s.CountBySource()
	if err != nil {
		t.Fatal(err)
	}
	if counts["oura"] != 2 || counts["manual"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestFlightEventKeepsEarliestDate(t *testing.T) {
	s := newTestStore(t)

	f := FlightEvent{
		FlightDate:   "2026-03-01",
		Origin:       "SFO",
		Destination:  "NRT",
		Airline:      "United",
		FlightNumber: "UA837",
		Reservation:  "Flight UA 837 departing SFO 11:05 AM landing NRT 2:25 PM",
		Miles:        5124,
	}
	n, err := s.AppendFlightEvents([]FlightEvent{f})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("first append counted %d new flights, want 1", n)
	}

	// Overnight flight shows up again on the landing day; the
	// departure date must win and the re-append counts nothing new.
	f.FlightDate = "2026-03-02"
	n, err = s.AppendFlightEvents([]FlightEvent{f})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("re-append counted %d new flights, want 0", n)
	}

	got, err := s.ListFlightEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("flight count = %d, want 1", len(got))
	}
	if got[0].FlightDate != "2026-03-01" {
		t.Fatalf("flight date = %s, want 2026-03-01", got[0].FlightDate)
	}
}

func TestManualTripUpsert(t *testing.T) {
	s := newTestStore(t)

	trip := ManualTrip{
		TripID:          "manual-2026-04-10",
		DepartureDate:   "2026-04-10",
		ReturnDate:      "2026-04-12",
		DestinationCity: "Tahoe",
		Purpose:         "personal",
		DurationDays:    3,
	}
	if err := s.AppendManualTrip(trip); err != nil {
		t.Fatal(err)
	}

	trip.ReturnDate = "2026-04-13"
	trip.DurationDays = 4
	if err := s.AppendManualTrip(trip); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListManualTrips()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("trip count = %d, want 1", len(got))
	}
	if got[0].DurationDays != 4 || got[0].ReturnDate != "2026-04-13" {
		t.Fatalf("trip not updated: %+v", got[0])
	}
}

func TestIsStructural(t *testing.T) {
	err := &StructuralError{Op: "open", Err: nil}
	if !IsStructural(err) {
		t.Fatal("StructuralError should be structural")
	}
	if IsStructural(nil) {
		t.Fatal("nil is not structural")
	}
}
