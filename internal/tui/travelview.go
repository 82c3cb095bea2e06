package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daylog/internal/snapshot"
	"github.com/sadopc/daylog/internal/travel"
)

// travelModel lists trips newest first, with the selected trip's
// flights expanded underneath.
type travelModel struct {
	width  int
	height int

	trips   []travel.Trip
	flights []travel.Flight
	cursor  int
}

func newTravelModel() travelModel {
	return travelModel{}
}

func (t *travelModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *travelModel) setSnapshot(s *snapshot.Snapshot) {
	// Newest trip first for browsing.
	t.trips = make([]travel.Trip, 0, len(s.Travel.Trips))
	for i := len(s.Travel.Trips) - 1; i >= 0; i-- {
		t.trips = append(t.trips, s.Travel.Trips[i])
	}
	t.flights = s.Travel.Flights
	t.cursor = 0
}

func (t travelModel) update(msg tea.Msg) (travelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.trips)-1 {
				t.cursor++
			}
		}
	}
	return t, nil
}

func (t travelModel) view() string {
	w := t.width - 4

	if len(t.trips) == 0 {
		return panelStyle.Width(w).Render(mutedStyle.Render("No trips yet."))
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Travel"), "")

	visible := t.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if t.cursor >= visible {
		start = t.cursor - visible + 1
	}

	for i := start; i < min(len(t.trips), start+visible); i++ {
		trip := t.trips[i]
		line := t.renderTrip(trip)
		if i == t.cursor {
			rows = append(rows, selectedItemStyle.Render("> "+line))
		} else {
			rows = append(rows, normalItemStyle.Render("  "+line))
		}
	}

	rows = append(rows, "", t.renderFlights(t.trips[t.cursor]))
	rows = append(rows, "", mutedStyle.Render("  ↑/↓: select trip"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t travelModel) renderTrip(trip travel.Trip) string {
	dest := trip.DestinationCity
	if trip.DestinationCountry != "" {
		dest += ", " + trip.DestinationCountry
	}
	span := trip.DepartureDate
	if trip.ReturnDate != "" {
		span += " → " + trip.ReturnDate
	} else {
		span += " → (ongoing)"
	}

	var marks []string
	if trip.ForcedClose {
		marks = append(marks, warningStyle.Render("forced"))
	}
	if trip.DataGap {
		marks = append(marks, errorStyle.Render("gap"))
	}

	line := fmt.Sprintf("%-10s %-24s %s  %dd", trip.TripID, dest, span, trip.DurationDays)
	if trip.TotalMiles > 0 {
		line += fmt.Sprintf("  %dmi", trip.TotalMiles)
	}
	if len(marks) > 0 {
		line += "  " + strings.Join(marks, " ")
	}
	return line
}

func (t travelModel) renderFlights(trip travel.Trip) string {
	var rows []string
	for _, f := range t.flights {
		if f.TripID != trip.TripID {
			continue
		}
		rows = append(rows, fmt.Sprintf("    %s  %s %s → %s  %dmi",
			f.FlightDate, accentStyle.Render(f.FlightNumber), f.Origin, f.Destination, f.Miles))
	}
	if len(rows) == 0 {
		return mutedStyle.Render("    no flights (manual trip)")
	}
	return strings.Join(rows, "\n")
}
