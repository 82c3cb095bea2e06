package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daylog/internal/snapshot"
)

// todayModel shows one day's full record, with ←/→ moving through the
// tracked days.
type todayModel struct {
	width  int
	height int

	dates  []string // sorted ascending
	days   map[string]snapshot.Day
	cursor int // index into dates; len-1 is the latest day
}

func newTodayModel() todayModel {
	return todayModel{}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *todayModel) setSnapshot(s *snapshot.Snapshot) {
	t.days = s.Days
	t.dates = t.dates[:0]
	for d := range s.Days {
		t.dates = append(t.dates, d)
	}
	sort.Strings(t.dates)
	t.cursor = len(t.dates) - 1
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Right):
			if t.cursor < len(t.dates)-1 {
				t.cursor++
			}
		}
	}
	return t, nil
}

func (t todayModel) view() string {
	w := t.width - 4

	if len(t.dates) == 0 {
		return panelStyle.Width(w).Render(mutedStyle.Render("No days tracked yet."))
	}

	date := t.dates[t.cursor]
	day := t.days[date]

	pos := mutedStyle.Render(fmt.Sprintf("day %d of %d", t.cursor+1, len(t.dates)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(date), "  ", pos,
	)

	var rows []string
	rows = append(rows, header, "")

	rows = append(rows, t.renderHabits(day), "")

	add := func(label, value string) {
		if value != "" {
			rows = append(rows, fmt.Sprintf("  %-16s %s", label, highlightStyle.Render(value)))
		}
	}

	if day.Sleep != nil {
		add("Sleep", formatHours(*day.Sleep))
	}
	if day.SleepScore != nil {
		add("Sleep score", fmt.Sprintf("%d", *day.SleepScore))
	}
	if day.ReadinessScore != nil {
		add("Readiness", fmt.Sprintf("%d", *day.ReadinessScore))
	}
	if day.ActivityScore != nil {
		add("Activity", fmt.Sprintf("%d", *day.ActivityScore))
	}
	if day.RestingHR != nil {
		add("Resting HR", fmt.Sprintf("%d bpm", *day.RestingHR))
	}
	if day.Steps != nil {
		add("Steps", fmt.Sprintf("%d", *day.Steps))
	}
	if day.ActiveCalories != nil {
		add("Active cal", fmt.Sprintf("%d", *day.ActiveCalories))
	}
	if day.Stress != nil {
		add("Stress", renderStress(*day.Stress))
	}
	if day.Mood != nil {
		add("Mood", strings.Repeat("★", *day.Mood)+strings.Repeat("☆", 5-*day.Mood))
	}
	if day.Energy != nil {
		add("Energy", fmt.Sprintf("%d/5", *day.Energy))
	}
	if day.TimeWorking != nil {
		add("Work", formatHours(float64(*day.TimeWorking)/60))
	}
	if day.Notes != nil {
		rows = append(rows, "", mutedStyle.Render("  "+*day.Notes))
	}

	rows = append(rows, "", mutedStyle.Render("  ←/→: browse days"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t todayModel) renderHabits(day snapshot.Day) string {
	item := func(label string, done bool) string {
		s := mutedStyle
		if done {
			s = successStyle
		}
		return s.Render(fmt.Sprintf("%s %s", habitGlyph(done), label))
	}

	score := fmt.Sprintf("%.0f%%", day.HabitScore*100)
	return "  " + strings.Join([]string{
		item("workout", day.Habits.Workout),
		item("sauna", day.Habits.Sauna),
		item("meditation", day.Habits.Meditation),
		titleStyle.Render(score),
	}, "   ")
}

func renderStress(level string) string {
	switch level {
	case "low":
		return successStyle.Render(level)
	case "moderate":
		return warningStyle.Render(level)
	default:
		return errorStyle.Render(level)
	}
}
