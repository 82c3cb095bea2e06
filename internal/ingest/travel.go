package ingest

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/travel"
)

// flightPattern matches calendar event titles like
// "Flight UA 837 departing SFO 11:05 AM landing NRT 2:25 PM".
var flightPattern = regexp.MustCompile(`(?i)Flight\s+(\w+)\s+(\w+)\s+departing\s+(\w{3})\s+.*?landing\s+(\w{3})`)

// reservationPattern pulls the confirmation code out of titles that
// carry one, e.g. "... Reservation #QX7K2P".
var reservationPattern = regexp.MustCompile(`(?i)Reservation\s*#?\s*(\w+)`)

// airlineNames expands the two-letter code in an event title; unknown
// codes keep the code itself.
var airlineNames = map[string]string{
	"UA": "United",
	"AA": "American",
	"DL": "Delta",
	"AS": "Alaska",
	"WN": "Southwest",
	"B6": "JetBlue",
	"NK": "Spirit",
	"LA": "LATAM",
	"JL": "JAL",
	"NH": "ANA",
	"BA": "British Airways",
	"LH": "Lufthansa",
	"AF": "Air France",
	"EK": "Emirates",
	"QR": "Qatar Airways",
}

// Travel reads the events tab of the shared Google Sheet and extracts
// flight events from calendar event titles. Matched flights land in the
// flight_events table; everything else on the tab is ignored.
type Travel struct {
	SheetURL string
	Client   *http.Client
}

func (t *Travel) Name() string { return "travel" }

func (t *Travel) Run(ctx context.Context, st *rawstore.Store, from, to time.Time) error {
	if t.SheetURL == "" {
		return fmt.Errorf("travel: GOOGLE_SHEET_URL not set")
	}
	rows, err := fetchSheetCSV(ctx, t.Client, t.SheetURL, "events")
	if err != nil {
		return fmt.Errorf("travel: %w", err)
	}
	if len(rows) < 2 {
		log.Printf("[travel] sheet has no data rows")
		return nil
	}

	header := rows[0]
	dateCol, titleCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "title", "summary":
			titleCol = i
		}
	}
	if dateCol < 0 || titleCol < 0 {
		return fmt.Errorf("travel: events sheet needs date and title columns")
	}

	var events []rawstore.FlightEvent
	for _, row := range rows[1:] {
		if dateCol >= len(row) || titleCol >= len(row) {
			continue
		}
		date := strings.TrimSpace(row[dateCol])
		if date == "" {
			continue
		}
		ev, ok := ParseFlightTitle(strings.TrimSpace(row[titleCol]), date)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	n, err := st.AppendFlightEvents(events)
	if err != nil {
		return err
	}
	log.Printf("[travel] %d events, %d flights, appended %d new", len(rows)-1, len(events), n)
	return nil
}

// ParseFlightTitle extracts a flight event from a calendar event title.
// Titles that are not flight reservations return ok=false.
func ParseFlightTitle(title, date string) (rawstore.FlightEvent, bool) {
	m := flightPattern.FindStringSubmatch(title)
	if m == nil {
		return rawstore.FlightEvent{}, false
	}
	airlineCode, number := m[1], m[2]
	origin := strings.ToUpper(m[3])
	destination := strings.ToUpper(m[4])

	airline := airlineNames[strings.ToUpper(airlineCode)]
	if airline == "" {
		airline = airlineCode
	}

	// The dedup key must match across the two calendar rows of an
	// overnight flight, so store the confirmation code rather than the
	// whole title (timestamps in the title differ between the rows).
	reservation := ""
	if rm := reservationPattern.FindStringSubmatch(title); rm != nil {
		reservation = rm[1]
	}

	return rawstore.FlightEvent{
		FlightDate:   date,
		Origin:       origin,
		Destination:  destination,
		Airline:      airline,
		FlightNumber: strings.ToUpper(airlineCode) + number,
		Reservation:  reservation,
		Miles:        travel.Miles(origin, destination),
	}, true
}
