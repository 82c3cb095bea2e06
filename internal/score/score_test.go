package score

import (
	"testing"

	"github.com/sadopc/daylog/internal/merge"
	"github.com/sadopc/daylog/internal/schema"
	"github.com/sadopc/daylog/internal/travel"
)

func day(date string, fields map[schema.Field]schema.Value) merge.Day {
	return merge.Day{Date: date, Fields: fields}
}

func habitsDay(date string, workout, sauna, meditation bool) merge.Day {
	fields := map[schema.Field]schema.Value{}
	if workout {
		fields[schema.FieldWorkoutType] = schema.EnumValue(schema.WorkoutCardio)
	}
	if sauna {
		fields[schema.FieldSauna] = schema.BoolValue(true)
	}
	if meditation {
		fields[schema.FieldMeditation] = schema.BoolValue(true)
	}
	return day(date, fields)
}

func TestHabitScoreTwoOfThree(t *testing.T) {
	d := habitsDay("2026-01-05", true, true, false)
	got := HabitScore(d)
	want := 2.0 / 3.0
	if got != want {
		t.Fatalf("habit score = %v, want %v", got, want)
	}
}

func TestHabitScoreAbsentIsFalse(t *testing.T) {
	d := day("2026-01-05", map[schema.Field]schema.Value{
		schema.FieldSteps: schema.IntValue(9000),
	})
	if got := HabitScore(d); got != 0 {
		t.Fatalf("day with no habit data scores %v, want 0", got)
	}
}

func TestWorkoutNoneIsNotAWorkout(t *testing.T) {
	d := day("2026-01-05", map[schema.Field]schema.Value{
		schema.FieldWorkoutType: schema.EnumValue(schema.WorkoutNone),
	})
	if DayHabits(d).Workout {
		t.Fatal("workoutType none must not count as a workout")
	}
}

func TestAggregateEmpty(t *testing.T) {
	r := Aggregate(nil, nil)
	if r.DaysTracked != 0 || r.AvgSleepHours != 0 || r.AvgHabitScore != 0 {
		t.Fatalf("empty rollup not zero: %+v", r)
	}
	if r.Streak.Current != 0 || r.Streak.Best != 0 {
		t.Fatalf("empty streak not zero: %+v", r.Streak)
	}
}

func TestAggregateAverages(t *testing.T) {
	days := map[string]merge.Day{
		"2026-01-05": day("2026-01-05", map[schema.Field]schema.Value{
			schema.FieldSleepHours: schema.FloatValue(7.0),
			schema.FieldMood:       schema.IntValue(4),
			schema.FieldSteps:      schema.IntValue(9000),
		}),
		"2026-01-06": day("2026-01-06", map[schema.Field]schema.Value{
			schema.FieldSleepHours: schema.FloatValue(8.0),
			schema.FieldSteps:      schema.IntValue(7000),
		}),
	}
	r := Aggregate(days, nil)

	if r.DaysTracked != 2 {
		t.Errorf("days tracked = %d", r.DaysTracked)
	}
	if r.AvgSleepHours != 7.5 {
		t.Errorf("avg sleep = %v, want 7.5", r.AvgSleepHours)
	}
	// Mood averages only over days that reported it.
	if r.AvgMood != 4 {
		t.Errorf("avg mood = %v, want 4", r.AvgMood)
	}
	if r.TotalSteps != 16000 {
		t.Errorf("total steps = %d, want 16000", r.TotalSteps)
	}
}

func TestAggregateTravel(t *testing.T) {
	trips := []travel.Trip{
		{TripID: "2026-001", DurationDays: 10, TotalMiles: 10300},
		{TripID: "2026-002", DurationDays: 3, TotalMiles: 0},
	}
	r := Aggregate(nil, trips)
	if r.TripCount != 2 || r.TravelDays != 13 || r.TotalMiles != 10300 {
		t.Fatalf("travel rollup = %+v", r)
	}
}

func TestHabitStreak(t *testing.T) {
	days := map[string]merge.Day{
		"2026-01-01": habitsDay("2026-01-01", true, false, false),
		"2026-01-02": habitsDay("2026-01-02", true, false, false),
		"2026-01-03": habitsDay("2026-01-03", true, true, false),
		"2026-01-04": habitsDay("2026-01-04", false, false, false),
		"2026-01-05": habitsDay("2026-01-05", true, false, false),
		"2026-01-06": habitsDay("2026-01-06", false, true, true),
	}
	r := Aggregate(days, nil)
	if r.Streak.Best != 3 {
		t.Errorf("best streak = %d, want 3", r.Streak.Best)
	}
	if r.Streak.Current != 2 {
		t.Errorf("current streak = %d, want 2", r.Streak.Current)
	}
}

func TestHabitStreakBrokenByUntrackedDay(t *testing.T) {
	// A calendar gap between tracked days breaks the run.
	days := map[string]merge.Day{
		"2026-01-01": habitsDay("2026-01-01", true, false, false),
		"2026-01-05": habitsDay("2026-01-05", true, false, false),
	}
	r := Aggregate(days, nil)
	if r.Streak.Best != 1 || r.Streak.Current != 1 {
		t.Fatalf("streak = %+v, want 1/1", r.Streak)
	}
}
