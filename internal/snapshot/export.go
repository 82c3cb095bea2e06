package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// WriteJSON writes the artifact, creating parent directories as needed.
func WriteJSON(s *Snapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a previously written artifact. The TUI uses this rather
// than re-running the pipeline.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &s, nil
}

// WriteCSV writes the flat daily summary, one row per tracked day in
// date order.
func WriteCSV(s *Snapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date", "sleep_hr", "sleep_score", "readiness_score", "activity_score",
		"resting_hr", "steps", "active_calories", "workout", "sauna",
		"meditation", "habit_score", "mood", "energy", "stress", "work_hr",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	dates := make([]string, 0, len(s.Days))
	for d := range s.Days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		d := s.Days[date]
		row := []string{
			date,
			fmtFloat(d.Sleep),
			fmtInt(d.SleepScore),
			fmtInt(d.ReadinessScore),
			fmtInt(d.ActivityScore),
			fmtInt(d.RestingHR),
			fmtInt(d.Steps),
			fmtInt(d.ActiveCalories),
			strconv.FormatBool(d.Habits.Workout),
			strconv.FormatBool(d.Habits.Sauna),
			strconv.FormatBool(d.Habits.Meditation),
			strconv.FormatFloat(d.HabitScore, 'f', 2, 64),
			fmtInt(d.Mood),
			fmtInt(d.Energy),
			fmtStr(d.Stress),
			fmtWorkHours(d.TimeWorking),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

type weekKey struct {
	year, week int
}

type weekAgg struct {
	sleepSum     float64
	sleepN       int
	readinessSum int
	readinessN   int
	habitSum     float64
	habitN       int
	moodSum      int
	moodN        int
	workMinSum   int
	workN        int
	steps        int
	workouts     int
	saunas       int
}

// WriteWeeklyCSV aggregates the daily ledger into ISO-week buckets:
// measurements are averaged over the days that reported them, counts
// (steps, workouts, sauna sessions) are summed.
func WriteWeeklyCSV(s *Snapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	weeks := map[weekKey]*weekAgg{}
	for date, d := range s.Days {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		k := weekKey{year, week}
		agg := weeks[k]
		if agg == nil {
			agg = &weekAgg{}
			weeks[k] = agg
		}

		if d.Sleep != nil {
			agg.sleepSum += *d.Sleep
			agg.sleepN++
		}
		if d.ReadinessScore != nil {
			agg.readinessSum += *d.ReadinessScore
			agg.readinessN++
		}
		agg.habitSum += d.HabitScore
		agg.habitN++
		if d.Mood != nil {
			agg.moodSum += *d.Mood
			agg.moodN++
		}
		if d.TimeWorking != nil {
			agg.workMinSum += *d.TimeWorking
			agg.workN++
		}
		if d.Steps != nil {
			agg.steps += *d.Steps
		}
		if d.Habits.Workout {
			agg.workouts++
		}
		if d.Habits.Sauna {
			agg.saunas++
		}
	}

	keys := make([]weekKey, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year", "week", "sleep_hr", "readiness_score", "habit_score",
		"mood", "work_hr", "steps", "workout_count", "sauna_sessions",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, k := range keys {
		agg := weeks[k]
		row := []string{
			strconv.Itoa(k.year),
			strconv.Itoa(k.week),
			fmtMean(agg.sleepSum, agg.sleepN),
			fmtMean(float64(agg.readinessSum), agg.readinessN),
			fmtMean(agg.habitSum, agg.habitN),
			fmtMean(float64(agg.moodSum), agg.moodN),
			fmtMean(float64(agg.workMinSum)/60, agg.workN),
			strconv.Itoa(agg.steps),
			strconv.Itoa(agg.workouts),
			strconv.Itoa(agg.saunas),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtMean(sum float64, n int) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(sum/float64(n), 'f', 1, 64)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func fmtWorkHours(minutes *int) string {
	if minutes == nil {
		return ""
	}
	return strconv.FormatFloat(float64(*minutes)/60, 'f', 1, 64)
}
