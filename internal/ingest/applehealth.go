package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

// AppleHealth reads Health Auto Export JSON files dropped into Dir
// (usually by the telegram poller) and turns them into per-day
// observations: steps, sleep hours, workout type and minutes, and a
// mindfulness flag.
type AppleHealth struct {
	Dir string
}

func (a *AppleHealth) Name() string { return schema.SourceAppleHealth }

// healthExport matches the Health Auto Export JSON layout. Only the
// metrics and workouts we map are decoded; everything else is ignored.
type healthExport struct {
	Data struct {
		Metrics []struct {
			Name string `json:"name"`
			Data []struct {
				Date string  `json:"date"`
				Qty  float64 `json:"qty"`
			} `json:"data"`
		} `json:"metrics"`
		Workouts []struct {
			Name     string  `json:"name"`
			Start    string  `json:"start"`
			Duration float64 `json:"duration"` // minutes
		} `json:"workouts"`
	} `json:"data"`
}

type healthDay struct {
	steps       float64
	asleepHr    float64
	workoutMin  float64
	workouts    []string
	mindfulMin  float64
	hasSteps    bool
	hasSleep    bool
	hasMindful  bool
	hasWorkouts bool
}

func (a *AppleHealth) Run(ctx context.Context, st *rawstore.Store, from, to time.Time) error {
	pattern := filepath.Join(a.Dir, "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("apple health: glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		log.Printf("[apple_health] no export files under %s", a.Dir)
		return nil
	}
	sort.Strings(files)

	days := map[string]*healthDay{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.readExport(path, from, to, days); err != nil {
			return err
		}
	}

	observedAt := time.Now().UTC()
	var obs []rawstore.Observation
	add := func(date, field, value string) {
		obs = append(obs, rawstore.Observation{
			Date:       date,
			Source:     schema.SourceAppleHealth,
			Field:      field,
			Value:      value,
			ObservedAt: observedAt,
		})
	}

	for date, d := range days {
		if d.hasSteps {
			add(date, "steps", strconv.Itoa(int(d.steps)))
		}
		if d.hasSleep {
			add(date, "asleep_hr", strconv.FormatFloat(round1(d.asleepHr), 'f', -1, 64))
		}
		if d.hasWorkouts {
			add(date, "workout_type", strings.Join(dedupe(d.workouts), ","))
			add(date, "workout_min", strconv.Itoa(int(d.workoutMin)))
		}
		if d.hasMindful {
			add(date, "meditation", strconv.FormatBool(d.mindfulMin > 0))
		}
	}

	n, err := st.AppendObservations(obs)
	if err != nil {
		return err
	}
	log.Printf("[apple_health] %d files -> %d days, appended %d new observations",
		len(files), len(days), n)
	return nil
}

func (a *AppleHealth) readExport(path string, from, to time.Time, days map[string]*healthDay) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("apple health: read %s: %w", path, err)
	}
	var exp healthExport
	if err := json.Unmarshal(raw, &exp); err != nil {
		return fmt.Errorf("apple health: parse %s: %w", path, err)
	}

	day := func(date string) *healthDay {
		d, ok := days[date]
		if !ok {
			d = &healthDay{}
			days[date] = d
		}
		return d
	}

	for _, m := range exp.Data.Metrics {
		for _, p := range m.Data {
			date := exportDate(p.Date)
			if date == "" || !inRange(date, from, to) {
				continue
			}
			d := day(date)
			switch m.Name {
			case "step_count":
				d.steps += p.Qty
				d.hasSteps = true
			case "sleep_analysis", "sleep_analysis_asleep":
				d.asleepHr += p.Qty
				d.hasSleep = true
			case "mindful_minutes":
				d.mindfulMin += p.Qty
				d.hasMindful = true
			}
		}
	}

	for _, w := range exp.Data.Workouts {
		date := exportDate(w.Start)
		if date == "" || !inRange(date, from, to) {
			continue
		}
		d := day(date)
		d.workouts = append(d.workouts, w.Name)
		d.workoutMin += w.Duration
		d.hasWorkouts = true
	}
	return nil
}

// exportDate extracts the YYYY-MM-DD prefix from a Health Auto Export
// timestamp like "2026-01-05 07:14:00 -0800".
func exportDate(s string) string {
	if len(s) < 10 {
		return ""
	}
	date := s[:10]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ""
	}
	return date
}

func inRange(date string, from, to time.Time) bool {
	return date >= from.Format("2006-01-02") && date <= to.Format("2006-01-02")
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
