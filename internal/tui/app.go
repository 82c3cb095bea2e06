// Package tui is the terminal dashboard. It renders the tracker.json
// artifact; all derivation happens in the pipeline, never here.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daylog/internal/config"
	"github.com/sadopc/daylog/internal/snapshot"
)

// App is the root Bubble Tea model.
type App struct {
	cfg    *config.Config
	width  int
	height int

	activeView viewState
	showHelp   bool

	snap      *snapshot.Snapshot
	generated string // of the loaded snapshot, for change detection

	today  todayModel
	trends trendsModel
	travel travelModel
	logf   logFormModel

	help   help.Model
	status string
}

func NewApp(cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	return App{
		cfg:        cfg,
		activeView: viewToday,
		today:      newTodayModel(),
		trends:     newTrendsModel(),
		travel:     newTravelModel(),
		logf:       newLogFormModel(cfg),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadSnapshot(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadSnapshot reads the artifact from disk.
func (a App) loadSnapshot() tea.Cmd {
	path := a.cfg.TrackerJSONPath()
	return func() tea.Msg {
		snap, err := snapshot.Load(path)
		return snapshotMsg{snap: snap, err: err}
	}
}

// checkReload reloads only when the artifact's generated timestamp moved,
// so a rebuild in another terminal shows up without a manual refresh.
func (a App) checkReload() tea.Cmd {
	path := a.cfg.TrackerJSONPath()
	current := a.generated
	return func() tea.Msg {
		snap, err := snapshot.Load(path)
		if err != nil || snap.Generated == current {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.trends.setSize(a.width, contentHeight)
		a.travel.setSize(a.width, contentHeight)
		a.logf.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// The log form captures all input while active.
		if a.activeView == viewLog && a.logf.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Reload):
			return a, a.loadSnapshot()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTrends
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTravel
			return a, nil
		case key.Matches(msg, keys.Tab4), key.Matches(msg, keys.New):
			a.activeView = viewLog
			var cmd tea.Cmd
			a.logf, cmd = a.logf.open()
			return a, cmd
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			if a.activeView == viewLog {
				var cmd tea.Cmd
				a.logf, cmd = a.logf.open()
				return a, cmd
			}
			return a, nil
		}

	case tickMsg:
		return a, tea.Batch(tickCmd(), a.checkReload())

	case snapshotMsg:
		if msg.err != nil {
			a.status = "no snapshot yet: run daylog rebuild"
			return a, nil
		}
		a.snap = msg.snap
		a.generated = msg.snap.Generated
		a.today.setSnapshot(msg.snap)
		a.trends.setSnapshot(msg.snap)
		a.travel.setSnapshot(msg.snap)
		a.status = "data from " + msg.snap.Generated
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case logSavedMsg:
		a.status = "logged " + msg.date
		a.activeView = viewToday
		return a, a.loadSnapshot()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewTrends:
		a.trends, cmd = a.trends.update(msg)
	case viewTravel:
		a.travel, cmd = a.travel.update(msg)
	case viewLog:
		a.logf, cmd = a.logf.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewTrends:
		content = a.trends.view()
	case viewTravel:
		content = a.travel.view()
	case viewLog:
		content = a.logf.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("daylog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
