// Package travel groups raw flight events into contiguous trips away
// from a home base. Segmentation is a single deterministic linear scan:
// the same flight list, home base, and gap threshold always produce
// the same trip partition, and every flight ends up in exactly one trip.
package travel

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
)

// Flight is a trip-owned flight leg.
type Flight struct {
	FlightDate   string `json:"flightDate"`
	TripID       string `json:"tripId"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
	Miles        int    `json:"miles"`
}

// Trip is a maximal run of flights away from the home base.
type Trip struct {
	TripID             string `json:"tripId"`
	DepartureDate      string `json:"departureDate"`
	ReturnDate         string `json:"returnDate,omitempty"` // absent = ongoing
	DestinationCity    string `json:"destinationCity"`
	DestinationCountry string `json:"destinationCountry"`
	Purpose            string `json:"purpose"`
	DurationDays       int    `json:"durationDays"`
	TotalMiles         int    `json:"totalMiles"`
	FlightCount        int    `json:"flightCount"`
	ForcedClose        bool   `json:"forcedClose,omitempty"` // closed by gap, no return flight seen
	DataGap            bool   `json:"dataGap,omitempty"`     // started from an unexpected origin
}

type openTrip struct {
	flights      []Flight
	lastLoc      string
	lastDate     time.Time
	destinations []string // non-home stops, in leg order
	dataGap      bool
}

// Segment partitions flight events into trips. Events are scanned in
// date order (insertion order within a day). maxGapDays bounds how long
// a trip may sit idle before it is force-closed as an implicit return;
// today provides the provisional end for a still-open trip.
func Segment(events []rawstore.FlightEvent, homeBase string, maxGapDays int, today time.Time) ([]Trip, []Flight) {
	sorted := make([]rawstore.FlightEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FlightDate != sorted[j].FlightDate {
			return sorted[i].FlightDate < sorted[j].FlightDate
		}
		return sorted[i].ID < sorted[j].ID
	})

	var trips []Trip
	var flights []Flight
	var cur *openTrip
	counter := 0

	closeCurrent := func(returnDate string, forced bool) {
		counter++
		trips = append(trips, finalize(cur, counter, returnDate, forced, today))
		tripID := trips[len(trips)-1].TripID
		for i := range cur.flights {
			cur.flights[i].TripID = tripID
		}
		flights = append(flights, cur.flights...)
		cur = nil
	}

	for _, e := range sorted {
		date := parseDate(e.FlightDate)

		// A long silence without a return flight closes the trip as of
		// its last known leg; the next flight starts fresh.
		if cur != nil && maxGapDays > 0 && int(date.Sub(cur.lastDate).Hours()/24) > maxGapDays {
			closeCurrent(cur.flights[len(cur.flights)-1].FlightDate, true)
		}

		f := toFlight(e)

		if cur == nil {
			cur = &openTrip{dataGap: e.Origin != homeBase}
			cur.attach(f, homeBase, date)
		} else if e.Origin == cur.lastLoc {
			cur.attach(f, homeBase, date)
		} else if e.Origin == homeBase {
			// Departing home again while a trip is still open: the old
			// trip ended without a recorded return flight.
			closeCurrent(cur.flights[len(cur.flights)-1].FlightDate, true)
			cur = &openTrip{}
			cur.attach(f, homeBase, date)
		} else {
			// Origin is neither home nor the trip's last location: a
			// data gap. Close the stale trip and start a flagged one.
			closeCurrent(cur.flights[len(cur.flights)-1].FlightDate, true)
			cur = &openTrip{dataGap: true}
			cur.attach(f, homeBase, date)
		}

		if e.Destination == homeBase {
			closeCurrent(f.FlightDate, false)
		}
	}

	if cur != nil {
		counter++
		trips = append(trips, finalize(cur, counter, "", false, today))
		tripID := trips[len(trips)-1].TripID
		for i := range cur.flights {
			cur.flights[i].TripID = tripID
		}
		flights = append(flights, cur.flights...)
	}

	return trips, flights
}

func (t *openTrip) attach(f Flight, homeBase string, date time.Time) {
	t.flights = append(t.flights, f)
	t.lastLoc = f.Destination
	t.lastDate = date
	if f.Destination != homeBase {
		t.destinations = append(t.destinations, f.Destination)
	}
}

func finalize(t *openTrip, counter int, returnDate string, forced bool, today time.Time) Trip {
	dep := t.flights[0].FlightDate
	depDate := parseDate(dep)

	miles, count := 0, len(t.flights)
	for _, f := range t.flights {
		miles += f.Miles
	}

	// Duration counts both endpoints: depart March 1, return March 10
	// is a 10-day trip.
	duration := 0
	if returnDate != "" {
		duration = int(parseDate(returnDate).Sub(depDate).Hours()/24) + 1
	} else {
		// Open trip: provisional duration as of today.
		duration = int(today.Sub(depDate).Hours()/24) + 1
	}
	if duration < 0 {
		duration = 0
	}

	city, country := CityCountry(mainDestination(t.destinations))

	return Trip{
		TripID:             fmt.Sprintf("%d-%03d", depDate.Year(), counter),
		DepartureDate:      dep,
		ReturnDate:         returnDate,
		DestinationCity:    city,
		DestinationCountry: country,
		Purpose:            "work",
		DurationDays:       duration,
		TotalMiles:         miles,
		FlightCount:        count,
		ForcedClose:        forced,
		DataGap:            t.dataGap,
	}
}

// mainDestination picks the trip's headline stop: the first leg that is
// not a common US connection hub, falling back to the last stop.
func mainDestination(destinations []string) string {
	if len(destinations) == 0 {
		return ""
	}
	for _, d := range destinations {
		if !usHubs[d] {
			return d
		}
	}
	return destinations[len(destinations)-1]
}

func toFlight(e rawstore.FlightEvent) Flight {
	miles := e.Miles
	if miles == 0 {
		miles = Miles(e.Origin, e.Destination)
	}
	return Flight{
		FlightDate:   e.FlightDate,
		Origin:       e.Origin,
		Destination:  e.Destination,
		Airline:      e.Airline,
		FlightNumber: e.FlightNumber,
		Miles:        miles,
	}
}

func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}
