package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/daylog/internal/config"
	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
	"github.com/sadopc/daylog/internal/snapshot"
)

// logFormModel is the quick-entry form for manual fields. Saving appends
// manual observations and rebuilds the snapshot so the other views pick
// the entry up immediately.
type logFormModel struct {
	cfg    *config.Config
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	date       *string
	mood       *string
	energy     *string
	workout    *string
	sauna      *bool
	meditation *bool
	notes      *string
}

func newLogFormModel(cfg *config.Config) logFormModel {
	date, mood, energy, workout, notes := "", "", "", "", ""
	sauna, meditation := false, false
	return logFormModel{
		cfg:        cfg,
		date:       &date,
		mood:       &mood,
		energy:     &energy,
		workout:    &workout,
		sauna:      &sauna,
		meditation: &meditation,
		notes:      &notes,
	}
}

func (l *logFormModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l logFormModel) open() (logFormModel, tea.Cmd) {
	*l.date = time.Now().Format("2006-01-02")
	*l.mood = ""
	*l.energy = ""
	*l.workout = "none"
	*l.sauna = false
	*l.meditation = false
	*l.notes = ""

	rating := func(v string) error {
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			return fmt.Errorf("must be 1-5")
		}
		return nil
	}

	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Value(l.date).
				Validate(func(v string) error {
					_, err := time.Parse("2006-01-02", v)
					if err != nil {
						return fmt.Errorf("want YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().Title("Mood (1-5)").Value(l.mood).Validate(rating),
			huh.NewInput().Title("Energy (1-5)").Value(l.energy).Validate(rating),
			huh.NewSelect[string]().Title("Workout").
				Options(
					huh.NewOption("None", "none"),
					huh.NewOption("Cardio", "cardio"),
					huh.NewOption("Weights", "weights"),
					huh.NewOption("Both", "both"),
				).Value(l.workout),
			huh.NewConfirm().Title("Sauna?").Value(l.sauna),
			huh.NewConfirm().Title("Meditation?").Value(l.meditation),
			huh.NewInput().Title("Notes").Value(l.notes),
		).Title("Log a day"),
	).WithShowHelp(true).WithShowErrors(true)

	l.formActive = true
	return l, l.form.Init()
}

func (l logFormModel) update(msg tea.Msg) (logFormModel, tea.Cmd) {
	if !l.formActive || l.form == nil {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.New) {
				return l.open()
			}
		}
		return l, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			l.formActive = false
			l.form = nil
			return l, nil
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.formActive = false
		return l, l.save()
	}

	return l, cmd
}

// save appends the entered fields as manual observations and rebuilds.
func (l logFormModel) save() tea.Cmd {
	date := *l.date
	obs := []rawstore.Observation{}

	add := func(field, value string) {
		obs = append(obs, rawstore.Observation{
			Date:       date,
			Source:     schema.SourceManual,
			Field:      field,
			Value:      value,
			ObservedAt: time.Now().UTC(),
		})
	}

	if *l.mood != "" {
		add("mood", *l.mood)
	}
	if *l.energy != "" {
		add("energy", *l.energy)
	}
	if *l.workout != "" && *l.workout != "none" {
		add("workout_type", *l.workout)
	}
	if *l.sauna {
		add("sauna", "true")
	}
	if *l.meditation {
		add("meditation", "true")
	}
	if *l.notes != "" {
		add("notes", *l.notes)
	}

	cfg := l.cfg
	return func() tea.Msg {
		if len(obs) == 0 {
			return statusMsg{text: "nothing to log"}
		}

		st, err := rawstore.New(cfg.DBPath())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("open store: %v", err), isError: true}
		}
		defer st.Close()

		if _, err := st.AppendObservations(obs); err != nil {
			return statusMsg{text: fmt.Sprintf("save: %v", err), isError: true}
		}
		if _, _, err := snapshot.Rebuild(st, cfg, time.Now()); err != nil {
			return statusMsg{text: fmt.Sprintf("rebuild: %v", err), isError: true}
		}
		return logSavedMsg{date: date}
	}
}

func (l logFormModel) view() string {
	w := l.width - 4

	if l.formActive && l.form != nil {
		title := titleStyle.Render("Log")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", l.form.View()),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Log"),
			"",
			mutedStyle.Render("Press enter to log today's manual entries."),
		),
	)
}
