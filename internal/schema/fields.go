// Package schema defines the canonical per-day field registry: every
// normalized field name, its type, its valid range, and the source
// priority order used to resolve conflicting observations.
package schema

// Field is a canonical, strongly typed field name in the Day record.
type Field string

const (
	FieldSleepHours     Field = "sleepHours"
	FieldSleepScore     Field = "sleepScore"
	FieldSleepDeepMin   Field = "sleepDeepMin"
	FieldSleepRemMin    Field = "sleepRemMin"
	FieldReadinessScore Field = "readinessScore"
	FieldActivityScore  Field = "activityScore"
	FieldRestingHR      Field = "restingHR"
	FieldLowestHR       Field = "lowestHR"
	FieldSteps          Field = "steps"
	FieldActiveCalories Field = "activeCalories"
	FieldWorkoutType    Field = "workoutType"
	FieldWorkoutMin     Field = "workoutMinutes"
	FieldSauna          Field = "sauna"
	FieldMeditation     Field = "meditation"
	FieldMood           Field = "mood"
	FieldEnergy         Field = "energy"
	FieldStress         Field = "stress"
	FieldWorkHours      Field = "workHours"
	FieldMeetingCount   Field = "meetingCount"
	FieldFocusHours     Field = "focusHours"
	FieldWeatherHighF   Field = "weatherHighF"
	FieldWeatherLowF    Field = "weatherLowF"
	FieldWeatherCond    Field = "weatherCondition"
	FieldNotes          Field = "notes"
)

// Known source identifiers. Manual entries are just another source.
const (
	SourceOura        = "oura"
	SourceAppleHealth = "apple_health"
	SourceWork        = "work"
	SourceWeather     = "weather"
	SourceSauna       = "sauna"
	SourceManual      = "manual"
)

// Workout type enum values.
const (
	WorkoutCardio  = "cardio"
	WorkoutWeights = "weights"
	WorkoutBoth    = "both"
	WorkoutNone    = "none"
)

// Stress enum values, bucketed from the readiness score.
const (
	StressLow      = "low"
	StressModerate = "moderate"
	StressHigh     = "high"
)

// Spec describes the canonical type, valid range, and conflict priority
// of one field. Min/Max apply to int and float kinds; Enum applies to
// enum kinds. Priority lists sources highest first; sources not listed
// rank below all listed ones.
type Spec struct {
	Kind     Kind
	Min, Max float64
	Enum     []string
	Priority []string
}

// Registry is the full canonical field table. Values outside a field's
// range are rejected, never clamped.
var Registry = map[Field]Spec{
	FieldSleepHours:     {Kind: KindFloat, Min: 0, Max: 24, Priority: []string{SourceOura, SourceAppleHealth, SourceManual}},
	FieldSleepScore:     {Kind: KindInt, Min: 0, Max: 100, Priority: []string{SourceOura}},
	FieldSleepDeepMin:   {Kind: KindInt, Min: 0, Max: 600, Priority: []string{SourceOura, SourceAppleHealth}},
	FieldSleepRemMin:    {Kind: KindInt, Min: 0, Max: 600, Priority: []string{SourceOura, SourceAppleHealth}},
	FieldReadinessScore: {Kind: KindInt, Min: 0, Max: 100, Priority: []string{SourceOura}},
	FieldActivityScore:  {Kind: KindInt, Min: 0, Max: 100, Priority: []string{SourceOura}},
	FieldRestingHR:      {Kind: KindInt, Min: 20, Max: 120, Priority: []string{SourceOura, SourceAppleHealth, SourceManual}},
	FieldLowestHR:       {Kind: KindInt, Min: 20, Max: 120, Priority: []string{SourceOura, SourceAppleHealth}},
	FieldSteps:          {Kind: KindInt, Min: 0, Max: 200000, Priority: []string{SourceOura, SourceAppleHealth}},
	FieldActiveCalories: {Kind: KindInt, Min: 0, Max: 10000, Priority: []string{SourceOura, SourceAppleHealth}},
	FieldWorkoutType:    {Kind: KindEnum, Enum: []string{WorkoutCardio, WorkoutWeights, WorkoutBoth, WorkoutNone}, Priority: []string{SourceAppleHealth, SourceManual}},
	FieldWorkoutMin:     {Kind: KindInt, Min: 0, Max: 1440, Priority: []string{SourceAppleHealth, SourceManual}},
	FieldSauna:          {Kind: KindBool, Priority: []string{SourceSauna, SourceManual}},
	FieldMeditation:     {Kind: KindBool, Priority: []string{SourceAppleHealth, SourceManual}},
	FieldMood:           {Kind: KindInt, Min: 1, Max: 5, Priority: []string{SourceManual}},
	FieldEnergy:         {Kind: KindInt, Min: 1, Max: 5, Priority: []string{SourceManual}},
	FieldStress:         {Kind: KindEnum, Enum: []string{StressLow, StressModerate, StressHigh}, Priority: []string{SourceOura, SourceManual}},
	FieldWorkHours:      {Kind: KindFloat, Min: 0, Max: 24, Priority: []string{SourceWork}},
	FieldMeetingCount:   {Kind: KindInt, Min: 0, Max: 50, Priority: []string{SourceWork}},
	FieldFocusHours:     {Kind: KindFloat, Min: 0, Max: 24, Priority: []string{SourceWork}},
	FieldWeatherHighF:   {Kind: KindFloat, Min: -60, Max: 140, Priority: []string{SourceWeather}},
	FieldWeatherLowF:    {Kind: KindFloat, Min: -60, Max: 140, Priority: []string{SourceWeather}},
	FieldWeatherCond:    {Kind: KindString, Priority: []string{SourceWeather}},
	FieldNotes:          {Kind: KindString, Priority: []string{SourceManual}},
}

// HabitSet is the fixed enumerated habit set used for scoring. Absent
// habit data counts as false, not as missing.
var HabitSet = []Field{FieldWorkoutType, FieldSauna, FieldMeditation}

// PriorityRank returns the conflict rank of a source for a field.
// Lower rank wins. Sources missing from the priority list share the
// rank just below the listed ones, leaving the tie to be broken by
// observation time and then lexical source order.
func PriorityRank(f Field, source string) int {
	spec, ok := Registry[f]
	if !ok {
		return 0
	}
	for i, s := range spec.Priority {
		if s == source {
			return i
		}
	}
	return len(spec.Priority)
}
