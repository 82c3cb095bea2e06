// Package snapshot assembles the TrackerSnapshot artifact: the single
// merged output the dashboard reads. A rebuild recomputes it in full
// from raw observations; nothing here mutates in place.
package snapshot

import (
	"github.com/sadopc/daylog/internal/merge"
	"github.com/sadopc/daylog/internal/schema"
	"github.com/sadopc/daylog/internal/score"
	"github.com/sadopc/daylog/internal/travel"
)

// Day is the serialized per-day record. Measurement fields are pointers
// so an absent value omits its key; habit flags always serialize and
// default to false.
type Day struct {
	Date             string       `json:"date"`
	Habits           score.Habits `json:"habits"`
	HabitScore       float64      `json:"habitScore"`
	Sleep            *float64     `json:"sleep,omitempty"`
	SleepScore       *int         `json:"sleepScore,omitempty"`
	SleepDeepMin     *int         `json:"sleepDeepMin,omitempty"`
	SleepRemMin      *int         `json:"sleepRemMin,omitempty"`
	ReadinessScore   *int         `json:"readinessScore,omitempty"`
	ActivityScore    *int         `json:"activityScore,omitempty"`
	RestingHR        *int         `json:"restingHR,omitempty"`
	Steps            *int         `json:"steps,omitempty"`
	ActiveCalories   *int         `json:"activeCalories,omitempty"`
	Stress           *string      `json:"stress,omitempty"`
	Mood             *int         `json:"mood,omitempty"`
	Energy           *int         `json:"energy,omitempty"`
	TimeWorking      *int         `json:"timeWorking,omitempty"` // minutes
	WeatherHighF     *float64     `json:"weatherHighF,omitempty"`
	WeatherCondition *string      `json:"weatherCondition,omitempty"`
	Notes            *string      `json:"notes,omitempty"`
}

// Travel bundles the derived trip entities.
type Travel struct {
	Trips   []travel.Trip   `json:"trips"`
	Flights []travel.Flight `json:"flights"`
}

// Snapshot is the complete write-once output artifact.
type Snapshot struct {
	Days      map[string]Day   `json:"days"`
	Travel    Travel           `json:"travel"`
	Rollup    score.YearRollup `json:"rollup"`
	Generated string           `json:"generated"` // RFC3339
}

// projectDay flattens a merged Day into its serialized form.
func projectDay(d merge.Day) Day {
	out := Day{
		Date:       d.Date,
		Habits:     score.DayHabits(d),
		HabitScore: score.HabitScore(d),
	}

	if v, ok := d.Float(schema.FieldSleepHours); ok {
		out.Sleep = &v
	}
	if v, ok := d.Int(schema.FieldSleepScore); ok {
		out.SleepScore = &v
	}
	if v, ok := d.Int(schema.FieldSleepDeepMin); ok {
		out.SleepDeepMin = &v
	}
	if v, ok := d.Int(schema.FieldSleepRemMin); ok {
		out.SleepRemMin = &v
	}
	if v, ok := d.Int(schema.FieldReadinessScore); ok {
		out.ReadinessScore = &v
	}
	if v, ok := d.Int(schema.FieldActivityScore); ok {
		out.ActivityScore = &v
	}
	if v, ok := d.Int(schema.FieldRestingHR); ok {
		out.RestingHR = &v
	}
	if v, ok := d.Int(schema.FieldSteps); ok {
		out.Steps = &v
	}
	if v, ok := d.Int(schema.FieldActiveCalories); ok {
		out.ActiveCalories = &v
	}
	if v, ok := d.Str(schema.FieldStress); ok {
		out.Stress = &v
	}
	if v, ok := d.Int(schema.FieldMood); ok {
		out.Mood = &v
	}
	if v, ok := d.Int(schema.FieldEnergy); ok {
		out.Energy = &v
	}
	if v, ok := d.Float(schema.FieldWorkHours); ok {
		minutes := int(v * 60)
		out.TimeWorking = &minutes
	}
	if v, ok := d.Float(schema.FieldWeatherHighF); ok {
		out.WeatherHighF = &v
	}
	if v, ok := d.Str(schema.FieldWeatherCond); ok {
		out.WeatherCondition = &v
	}
	if v, ok := d.Str(schema.FieldNotes); ok {
		out.Notes = &v
	}
	return out
}
