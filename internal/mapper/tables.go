package mapper

import (
	"fmt"
	"strings"

	"github.com/sadopc/daylog/internal/schema"
	"github.com/shopspring/decimal"
)

// Mapping binds one raw column to a canonical field through an explicit
// conversion. Conversions are pure; there is no implicit coercion.
type Mapping struct {
	Field   schema.Field
	Convert func(raw string) (schema.Value, error)
}

// tables is the full per-source mapping configuration: data, not code,
// so the canonicalization rules stay auditable in one place.
var tables = map[string]map[string][]Mapping{
	schema.SourceOura: {
		"sleep_score":        {{schema.FieldSleepScore, asInt}},
		"total_sleep_min":    {{schema.FieldSleepHours, minutesToHours}},
		"deep_min":           {{schema.FieldSleepDeepMin, asInt}},
		"rem_min":            {{schema.FieldSleepRemMin, asInt}},
		"hr_lowest":          {{schema.FieldLowestHR, asInt}},
		"readiness_score":    {{schema.FieldReadinessScore, asInt}, {schema.FieldStress, readinessToStress}},
		"resting_heart_rate": {{schema.FieldRestingHR, asInt}},
		"activity_score":     {{schema.FieldActivityScore, asInt}},
		"active_calories":    {{schema.FieldActiveCalories, asInt}},
		"steps":              {{schema.FieldSteps, asInt}},
	},
	schema.SourceAppleHealth: {
		"steps":        {{schema.FieldSteps, asInt}},
		"asleep_hr":    {{schema.FieldSleepHours, asFloat}},
		"workout_type": {{schema.FieldWorkoutType, workoutType}},
		"workout_min":  {{schema.FieldWorkoutMin, asInt}},
		"meditation":   {{schema.FieldMeditation, asBool}},
	},
	schema.SourceWork: {
		"total_work_hr": {{schema.FieldWorkHours, asFloat}},
		"meeting_count": {{schema.FieldMeetingCount, asInt}},
		"focus_hr":      {{schema.FieldFocusHours, asFloat}},
	},
	schema.SourceWeather: {
		"high_f":    {{schema.FieldWeatherHighF, asFloat}},
		"low_f":     {{schema.FieldWeatherLowF, asFloat}},
		"condition": {{schema.FieldWeatherCond, asString}},
	},
	schema.SourceSauna: {
		"sessions": {{schema.FieldSauna, countToBool}},
	},
	schema.SourceManual: {
		"mood":         {{schema.FieldMood, asInt}},
		"energy":       {{schema.FieldEnergy, asInt}},
		"sauna":        {{schema.FieldSauna, asBool}},
		"meditation":   {{schema.FieldMeditation, asBool}},
		"workout_type": {{schema.FieldWorkoutType, workoutType}},
		"sleep_hr":     {{schema.FieldSleepHours, asFloat}},
		"notes":        {{schema.FieldNotes, asString}},
	},
}

// Raw numeric text goes through decimal so "7.50" and "7.5" canonicalize
// identically and unit conversions stay exact.
func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %q", raw)
	}
	return d, nil
}

func asFloat(raw string) (schema.Value, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return schema.Value{}, err
	}
	return schema.FloatValue(d.InexactFloat64()), nil
}

func asInt(raw string) (schema.Value, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return schema.Value{}, err
	}
	if !d.IsInteger() {
		return schema.Value{}, fmt.Errorf("not an integer: %q", raw)
	}
	return schema.IntValue(int(d.IntPart())), nil
}

func asBool(raw string) (schema.Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return schema.BoolValue(true), nil
	case "false", "0", "no", "":
		return schema.BoolValue(false), nil
	}
	return schema.Value{}, fmt.Errorf("not a boolean: %q", raw)
}

func asString(raw string) (schema.Value, error) {
	return schema.StringValue(strings.TrimSpace(raw)), nil
}

// minutesToHours converts sleep minutes to hours rounded to one decimal.
func minutesToHours(raw string) (schema.Value, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return schema.Value{}, err
	}
	hours := d.Div(decimal.NewFromInt(60)).Round(1)
	return schema.FloatValue(hours.InexactFloat64()), nil
}

// countToBool turns a session count into a did-it flag.
func countToBool(raw string) (schema.Value, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return schema.Value{}, err
	}
	return schema.BoolValue(d.IsPositive()), nil
}

// readinessToStress buckets an Oura readiness score into a stress level.
func readinessToStress(raw string) (schema.Value, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return schema.Value{}, err
	}
	score := d.InexactFloat64()
	switch {
	case score >= 75:
		return schema.EnumValue(schema.StressLow), nil
	case score >= 55:
		return schema.EnumValue(schema.StressModerate), nil
	default:
		return schema.EnumValue(schema.StressHigh), nil
	}
}

// workoutType normalizes a raw workout type list ("strength,running")
// into the canonical enum.
func workoutType(raw string) (schema.Value, error) {
	types := strings.ToLower(strings.TrimSpace(raw))
	if types == "" || types == "none" {
		return schema.EnumValue(schema.WorkoutNone), nil
	}

	weights := strings.Contains(types, "strength") || strings.Contains(types, "weight")
	cardio := strings.Contains(types, "running") || strings.Contains(types, "cycling") ||
		strings.Contains(types, "cardio") || strings.Contains(types, "swimming") ||
		strings.Contains(types, "hiking")

	switch {
	case weights && cardio:
		return schema.EnumValue(schema.WorkoutBoth), nil
	case weights:
		return schema.EnumValue(schema.WorkoutWeights), nil
	default:
		// Unknown workout types count as cardio, matching the habit
		// semantics of "did any workout".
		return schema.EnumValue(schema.WorkoutCardio), nil
	}
}
