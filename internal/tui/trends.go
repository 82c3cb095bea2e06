package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daylog/internal/snapshot"
)

type trendMetric int

const (
	trendSleep trendMetric = iota
	trendHabits
	trendSteps
	trendMood
	trendCount
)

var trendNames = []string{"Sleep", "Habits", "Steps", "Mood"}

// trendsModel draws a two-week bar chart of one metric, plus the year
// rollup. ←/→ pages back through history, ↑/↓ switches metric.
type trendsModel struct {
	width  int
	height int

	snap   *snapshot.Snapshot
	dates  []string
	metric trendMetric
	offset int // 14-day pages back from the latest day

	chart barchart.Model
}

func newTrendsModel() trendsModel {
	return trendsModel{chart: barchart.New(60, 12)}
}

func (t *trendsModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.buildChart()
}

func (t *trendsModel) setSnapshot(s *snapshot.Snapshot) {
	t.snap = s
	t.dates = t.dates[:0]
	for d := range s.Days {
		t.dates = append(t.dates, d)
	}
	sort.Strings(t.dates)
	t.buildChart()
}

func (t trendsModel) update(msg tea.Msg) (trendsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			t.offset++
			t.buildChart()
		case key.Matches(msg, keys.Right):
			if t.offset > 0 {
				t.offset--
				t.buildChart()
			}
		case key.Matches(msg, keys.Up):
			t.metric = (t.metric + trendCount - 1) % trendCount
			t.buildChart()
		case key.Matches(msg, keys.Down):
			t.metric = (t.metric + 1) % trendCount
			t.buildChart()
		}
	}
	return t, nil
}

// window returns the 14 dates ending offset pages before the latest day.
func (t trendsModel) window() []string {
	if len(t.dates) == 0 {
		return nil
	}
	last, err := time.Parse("2006-01-02", t.dates[len(t.dates)-1])
	if err != nil {
		return nil
	}
	end := last.AddDate(0, 0, -14*t.offset)

	var out []string
	for i := 13; i >= 0; i-- {
		out = append(out, end.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return out
}

func (t *trendsModel) buildChart() {
	chartWidth := t.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if t.height > 30 {
		chartHeight = 16
	}
	t.chart = barchart.New(chartWidth, chartHeight)

	if t.snap == nil {
		return
	}

	var bars []barchart.BarData
	for _, date := range t.window() {
		label := date[8:] // day of month
		value, ok := 0.0, false
		if day, tracked := t.snap.Days[date]; tracked {
			value, ok = t.metricValue(day)
		}

		style := lipgloss.NewStyle().Foreground(colorSecondary)
		if !ok {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: trendNames[t.metric], Value: value, Style: style},
			},
		})
	}

	t.chart.PushAll(bars)
	t.chart.Draw()
}

func (t trendsModel) metricValue(day snapshot.Day) (float64, bool) {
	switch t.metric {
	case trendSleep:
		if day.Sleep != nil {
			return *day.Sleep, true
		}
	case trendHabits:
		return day.HabitScore * 3, true
	case trendSteps:
		if day.Steps != nil {
			return float64(*day.Steps) / 1000, true
		}
	case trendMood:
		if day.Mood != nil {
			return float64(*day.Mood), true
		}
	}
	return 0, false
}

func (t trendsModel) view() string {
	w := t.width - 4

	var tabs []string
	for i, name := range trendNames {
		if trendMetric(i) == t.metric {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	metricTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	window := t.window()
	dateLabel := ""
	if len(window) > 0 {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s — %s", window[0], window[len(window)-1]))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Trends"), "  ", metricTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: page  ↑/↓: metric")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", t.chart.View(), "", t.renderRollup(), "", nav,
		),
	)
}

func (t trendsModel) renderRollup() string {
	if t.snap == nil {
		return ""
	}
	r := t.snap.Rollup

	items := []string{
		fmt.Sprintf("%d days", r.DaysTracked),
		fmt.Sprintf("sleep %s", formatHours(r.AvgSleepHours)),
		fmt.Sprintf("habits %.0f%%", r.AvgHabitScore*100),
		fmt.Sprintf("%d workouts", r.TotalWorkouts),
		fmt.Sprintf("streak %d (best %d)", r.Streak.Current, r.Streak.Best),
	}
	return "  " + mutedStyle.Render(strings.Join(items, "   "))
}
