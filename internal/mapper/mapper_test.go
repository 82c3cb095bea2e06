package mapper

import (
	"testing"
	"time"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

func rawObs(date, source, field, value string) rawstore.Observation {
	return rawstore.Observation{
		Date:       date,
		Source:     source,
		Field:      field,
		Value:      value,
		ObservedAt: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestMapSleepMinutesToHours(t *testing.T) {
	vals, rowErr, known := Map(rawObs("2026-01-05", "oura", "total_sleep_min", "450"))
	if !known || rowErr != nil {
		t.Fatalf("known=%v err=%v", known, rowErr)
	}
	if len(vals) != 1 {
		t.Fatalf("got %d values, want 1", len(vals))
	}
	if vals[0].Field != schema.FieldSleepHours {
		t.Fatalf("field = %s, want sleepHours", vals[0].Field)
	}
	if vals[0].Value.Float != 7.5 {
		t.Fatalf("450 min = %v hours, want 7.5", vals[0].Value.Float)
	}
}

func TestMapSleepMinutesRounding(t *testing.T) {
	// 433 min = 7.2166... hours, rounds to 7.2.
	vals, _, _ := Map(rawObs("2026-01-05", "oura", "total_sleep_min", "433"))
	if vals[0].Value.Float != 7.2 {
		t.Fatalf("433 min = %v hours, want 7.2", vals[0].Value.Float)
	}
}

func TestMapReadinessFansOut(t *testing.T) {
	vals, rowErr, known := Map(rawObs("2026-01-05", "oura", "readiness_score", "82"))
	if !known || rowErr != nil {
		t.Fatalf("known=%v err=%v", known, rowErr)
	}
	if len(vals) != 2 {
		t.Fatalf("readiness should fan out to 2 values, got %d", len(vals))
	}
	if vals[0].Field != schema.FieldReadinessScore || vals[0].Value.Int != 82 {
		t.Fatalf("first value = %+v", vals[0])
	}
	if vals[1].Field != schema.FieldStress || vals[1].Value.Str != schema.StressLow {
		t.Fatalf("second value = %+v", vals[1])
	}
}

func TestStressBuckets(t *testing.T) {
	tests := []struct {
		score string
		want  string
	}{
		{"75", schema.StressLow},
		{"74", schema.StressModerate},
		{"55", schema.StressModerate},
		{"54", schema.StressHigh},
		{"10", schema.StressHigh},
	}
	for _, tt := range tests {
		vals, _, _ := Map(rawObs("2026-01-05", "oura", "readiness_score", tt.score))
		if got := vals[1].Value.Str; got != tt.want {
			t.Errorf("readiness %s -> stress %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestWorkoutTypeNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Functional Strength Training", schema.WorkoutWeights},
		{"Running", schema.WorkoutCardio},
		{"Running,Traditional Strength Training", schema.WorkoutBoth},
		{"Kickboxing", schema.WorkoutCardio}, // unknown types count as cardio
		{"none", schema.WorkoutNone},
		{"", schema.WorkoutNone},
	}
	for _, tt := range tests {
		vals, rowErr, _ := Map(rawObs("2026-01-05", "apple_health", "workout_type", tt.raw))
		if rowErr != nil {
			t.Fatalf("workout %q: %v", tt.raw, rowErr)
		}
		if got := vals[0].Value.Str; got != tt.want {
			t.Errorf("workout %q -> %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestMapBadDate(t *testing.T) {
	_, rowErr, known := Map(rawObs("01/05/2026", "oura", "steps", "9000"))
	if !known {
		t.Fatal("steps is a known oura column")
	}
	if rowErr == nil {
		t.Fatal("unparseable date should yield a row error")
	}
}

func TestMapOutOfRange(t *testing.T) {
	_, rowErr, _ := Map(rawObs("2026-01-05", "manual", "mood", "11"))
	if rowErr == nil {
		t.Fatal("mood 11 should be rejected, not clamped")
	}
}

func TestMapNotANumber(t *testing.T) {
	_, rowErr, _ := Map(rawObs("2026-01-05", "oura", "steps", "lots"))
	if rowErr == nil {
		t.Fatal("non-numeric steps should yield a row error")
	}
}

func TestMapUnknownColumnSkipped(t *testing.T) {
	_, rowErr, known := Map(rawObs("2026-01-05", "oura", "hrv_balance", "55"))
	if known {
		t.Fatal("unknown column should not be known")
	}
	if rowErr != nil {
		t.Fatal("unknown column is skipped, not an error")
	}
}

func TestMapAllPartialFailure(t *testing.T) {
	batch := []rawstore.Observation{
		rawObs("2026-01-05", "oura", "steps", "9000"),
		rawObs("2026-01-05", "oura", "steps", "bad"),
		rawObs("2026-01-05", "oura", "hrv_balance", "55"),
		rawObs("2026-01-05", "manual", "mood", "4"),
	}
	mapped, errs, skipped := MapAll(batch)
	if len(mapped) != 2 {
		t.Fatalf("mapped %d, want 2", len(mapped))
	}
	if len(errs) != 1 {
		t.Fatalf("errors %d, want 1", len(errs))
	}
	if skipped != 1 {
		t.Fatalf("skipped %d, want 1", skipped)
	}
}

func TestCountToBool(t *testing.T) {
	vals, _, _ := Map(rawObs("2026-01-05", "sauna", "sessions", "2"))
	if !vals[0].Value.Bool {
		t.Fatal("2 sessions should map to true")
	}
	vals, _, _ = Map(rawObs("2026-01-05", "sauna", "sessions", "0"))
	if vals[0].Value.Bool {
		t.Fatal("0 sessions should map to false")
	}
}
