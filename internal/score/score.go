// Package score derives rollup statistics from merged Day records.
// Everything here is a pure function over its inputs and is recomputed
// from scratch on every rebuild.
package score

import (
	"sort"
	"time"

	"github.com/sadopc/daylog/internal/merge"
	"github.com/sadopc/daylog/internal/schema"
	"github.com/sadopc/daylog/internal/travel"
)

// Habits is the boolean habit view of a Day. Absent habit data counts
// as false, not as missing.
type Habits struct {
	Workout    bool `json:"workout"`
	Sauna      bool `json:"sauna"`
	Meditation bool `json:"meditation"`
}

// DayHabits extracts the fixed habit set from a Day. The workout habit
// is true when any workout type other than "none" was recorded.
func DayHabits(d merge.Day) Habits {
	workout := false
	if wt, ok := d.Str(schema.FieldWorkoutType); ok && wt != schema.WorkoutNone {
		workout = true
	}
	return Habits{
		Workout:    workout,
		Sauna:      d.Bool(schema.FieldSauna),
		Meditation: d.Bool(schema.FieldMeditation),
	}
}

// HabitScore is the fraction of the habit set done that day.
func HabitScore(d merge.Day) float64 {
	h := DayHabits(d)
	done := 0
	for _, b := range []bool{h.Workout, h.Sauna, h.Meditation} {
		if b {
			done++
		}
	}
	return float64(done) / float64(len(schema.HabitSet))
}

// Streak tracks consecutive tracked days with at least one habit done.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// YearRollup is the dashboard's aggregate view. All values are zero for
// an empty day map; an empty input is not an error.
type YearRollup struct {
	DaysTracked    int     `json:"daysTracked"`
	AvgSleepHours  float64 `json:"avgSleepHours"`
	AvgHabitScore  float64 `json:"avgHabitScore"`
	AvgMood        float64 `json:"avgMood"`
	TotalWorkouts  int     `json:"totalWorkouts"`
	TotalSaunaDays int     `json:"totalSaunaDays"`
	TotalSteps     int     `json:"totalSteps"`
	TripCount      int     `json:"tripCount"`
	TravelDays     int     `json:"travelDays"`
	TotalMiles     int     `json:"totalMiles"`
	Streak         Streak  `json:"streak"`
}

// Aggregate computes the rollup over the whole day map and trip list.
func Aggregate(days map[string]merge.Day, trips []travel.Trip) YearRollup {
	var r YearRollup
	r.DaysTracked = len(days)

	sleepSum, sleepN := 0.0, 0
	moodSum, moodN := 0.0, 0
	scoreSum := 0.0

	for _, d := range days {
		h := DayHabits(d)
		if h.Workout {
			r.TotalWorkouts++
		}
		if h.Sauna {
			r.TotalSaunaDays++
		}
		scoreSum += HabitScore(d)

		if v, ok := d.Float(schema.FieldSleepHours); ok {
			sleepSum += v
			sleepN++
		}
		if v, ok := d.Int(schema.FieldMood); ok {
			moodSum += float64(v)
			moodN++
		}
		if v, ok := d.Int(schema.FieldSteps); ok {
			r.TotalSteps += v
		}
	}

	if sleepN > 0 {
		r.AvgSleepHours = round1(sleepSum / float64(sleepN))
	}
	if moodN > 0 {
		r.AvgMood = round1(moodSum / float64(moodN))
	}
	if r.DaysTracked > 0 {
		r.AvgHabitScore = round2(scoreSum / float64(r.DaysTracked))
	}

	r.TripCount = len(trips)
	for _, t := range trips {
		r.TravelDays += t.DurationDays
		r.TotalMiles += t.TotalMiles
	}

	r.Streak = habitStreak(days)
	return r
}

// habitStreak walks the tracked dates in order. Best is the longest run
// of consecutive calendar days with at least one habit done; Current is
// the run ending on the most recent tracked day (zero when that day has
// no habit done).
func habitStreak(days map[string]merge.Day) Streak {
	if len(days) == 0 {
		return Streak{}
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var s Streak
	run := 0
	var prev time.Time

	for _, ds := range dates {
		t, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}
		done := HabitScore(days[ds]) > 0

		switch {
		case !done:
			run = 0
		case run > 0 && t.Sub(prev) == 24*time.Hour:
			run++
		default:
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
		prev = t
	}

	s.Current = run
	return s
}

func round1(f float64) float64 { return float64(int(f*10+0.5)) / 10 }
func round2(f float64) float64 { return float64(int(f*100+0.5)) / 100 }
