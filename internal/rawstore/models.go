package rawstore

import "time"

// Observation is one raw, source-stamped data point: on this date, this
// source reported this field with this value. The field name is the
// source's own column name; canonicalization happens in the mapper.
type Observation struct {
	ID         int64
	Date       string // YYYY-MM-DD
	Source     string
	Field      string
	Value      string
	ObservedAt time.Time
}

// FlightEvent is a raw flight parsed from calendar events. Overnight
// flights show up on two calendar days in the feed, so the store keeps
// the earliest date per (flight number, reservation, origin, destination).
type FlightEvent struct {
	ID           int64
	FlightDate   string // YYYY-MM-DD
	Origin       string // IATA code
	Destination  string // IATA code
	Airline      string
	FlightNumber string
	Reservation  string
	Miles        int // 0 = unknown
}

// ManualTrip is a hand-logged trip with no flight events behind it.
// It bypasses the segmenter and is appended to the snapshot as-is.
type ManualTrip struct {
	TripID             string
	DepartureDate      string
	ReturnDate         string // "" = ongoing
	DestinationCity    string
	DestinationCountry string
	Purpose            string
	DurationDays       int
}

// ObservationFilter narrows ListObservations.
type ObservationFilter struct {
	Source string
	From   string // inclusive YYYY-MM-DD
	To     string // inclusive YYYY-MM-DD
}
