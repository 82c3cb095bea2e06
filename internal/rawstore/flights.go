package rawstore

import (
	"database/sql"
	"errors"
	"fmt"
)

// AppendFlightEvents upserts raw flights and returns the number of
// genuinely new ones. A flight already present keeps the earliest
// flight_date: the same flight appears on both calendar days of an
// overnight itinerary and the departure day wins.
func (s *Store) AppendFlightEvents(events []FlightEvent) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StructuralError{Op: "begin flight append", Err: err}
	}
	defer tx.Rollback()

	check, err := tx.Prepare(
		`SELECT 1 FROM flight_events
		 WHERE flight_number = ? AND reservation = ? AND origin = ? AND destination = ?`)
	if err != nil {
		return 0, &StructuralError{Op: "prepare flight check", Err: err}
	}
	defer check.Close()

	stmt, err := tx.Prepare(
		`INSERT INTO flight_events (flight_date, origin, destination, airline, flight_number, reservation, miles)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(flight_number, reservation, origin, destination) DO UPDATE SET
		   flight_date = min(flight_date, excluded.flight_date)`)
	if err != nil {
		return 0, &StructuralError{Op: "prepare flight append", Err: err}
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		var one int
		err := check.QueryRow(e.FlightNumber, e.Reservation, e.Origin, e.Destination).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			inserted++
		case err != nil:
			return inserted, fmt.Errorf("check flight %s %s->%s: %w", e.FlightNumber, e.Origin, e.Destination, err)
		}
		if _, err := stmt.Exec(e.FlightDate, e.Origin, e.Destination, e.Airline, e.FlightNumber, e.Reservation, e.Miles); err != nil {
			return inserted, fmt.Errorf("append flight %s %s->%s: %w", e.FlightNumber, e.Origin, e.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, &StructuralError{Op: "commit flight append", Err: err}
	}
	return inserted, nil
}

// ListFlightEvents returns all raw flights ordered by date, then by
// insertion order within a day.
func (s *Store) ListFlightEvents() ([]FlightEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, flight_date, origin, destination, airline, flight_number, reservation, miles
		 FROM flight_events ORDER BY flight_date, id`)
	if err != nil {
		return nil, &StructuralError{Op: "list flights", Err: err}
	}
	defer rows.Close()

	var out []FlightEvent
	for rows.Next() {
		var e FlightEvent
		if err := rows.Scan(&e.ID, &e.FlightDate, &e.Origin, &e.Destination, &e.Airline, &e.FlightNumber, &e.Reservation, &e.Miles); err != nil {
			return nil, &StructuralError{Op: "scan flight", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StructuralError{Op: "iterate flights", Err: err}
	}
	return out, nil
}

// AppendManualTrip stores a hand-logged trip, replacing any previous
// entry with the same trip id.
func (s *Store) AppendManualTrip(t ManualTrip) error {
	_, err := s.db.Exec(
		`INSERT INTO manual_trips (trip_id, departure_date, return_date, destination_city, destination_country, purpose, duration_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(trip_id) DO UPDATE SET
		   departure_date=excluded.departure_date,
		   return_date=excluded.return_date,
		   destination_city=excluded.destination_city,
		   destination_country=excluded.destination_country,
		   purpose=excluded.purpose,
		   duration_days=excluded.duration_days`,
		t.TripID, t.DepartureDate, t.ReturnDate, t.DestinationCity, t.DestinationCountry, t.Purpose, t.DurationDays,
	)
	if err != nil {
		return fmt.Errorf("append manual trip %s: %w", t.TripID, err)
	}
	return nil
}

// ListManualTrips returns hand-logged trips ordered by departure date.
func (s *Store) ListManualTrips() ([]ManualTrip, error) {
	rows, err := s.db.Query(
		`SELECT trip_id, departure_date, return_date, destination_city, destination_country, purpose, duration_days
		 FROM manual_trips ORDER BY departure_date`)
	if err != nil {
		return nil, &StructuralError{Op: "list manual trips", Err: err}
	}
	defer rows.Close()

	var out []ManualTrip
	for rows.Next() {
		var t ManualTrip
		if err := rows.Scan(&t.TripID, &t.DepartureDate, &t.ReturnDate, &t.DestinationCity, &t.DestinationCountry, &t.Purpose, &t.DurationDays); err != nil {
			return nil, &StructuralError{Op: "scan manual trip", Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
