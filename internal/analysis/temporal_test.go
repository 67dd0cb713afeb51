package analysis

import (
	"testing"
	"time"

	"mcp-gut-check/internal/models"
)

func TestTemporalPatternAnalyzer_PeakHour(t *testing.T) {
	symptoms := []models.Symptom{
		symptom(at(0, 7, 5)),
		symptom(at(1, 7, 20)),
		symptom(at(2, 7, 40)),
		symptom(at(3, 7, 55)),
		symptom(at(4, 15, 0)),
	}

	patterns := NewTemporalPatternAnalyzer(utc).Analyze(nil, symptoms)
	if len(patterns) != 1 {
		t.Fatalf("expected only a time-of-day pattern, got %+v", patterns)
	}
	p := patterns[0]
	if p.Type != PatternTimeOfDay {
		t.Fatalf("Type = %q, want %q", p.Type, PatternTimeOfDay)
	}
	if p.Hour != 7 {
		t.Errorf("Hour = %d, want 7", p.Hour)
	}
	if p.Occurrences != 4 || p.Total != 5 {
		t.Errorf("Occurrences/Total = %d/%d, want 4/5", p.Occurrences, p.Total)
	}
	// 4/5 + 0.3 clamps to 0.95
	if !approx(p.Confidence, 0.95) {
		t.Errorf("Confidence = %f, want 0.95", p.Confidence)
	}
}

func TestTemporalPatternAnalyzer_PeakHourBelowThreshold(t *testing.T) {
	symptoms := []models.Symptom{
		symptom(at(0, 7, 0)),
		symptom(at(1, 7, 0)),
		symptom(at(2, 9, 0)),
	}
	for _, p := range NewTemporalPatternAnalyzer(utc).Analyze(nil, symptoms) {
		if p.Type == PatternTimeOfDay {
			t.Errorf("unexpected time-of-day pattern with only 2 occurrences: %+v", p)
		}
	}
}

func TestTemporalPatternAnalyzer_DayOfWeek(t *testing.T) {
	symptoms := []models.Symptom{
		symptom(at(0, 8, 0)),
		symptom(at(7, 13, 0)),
		symptom(at(14, 19, 0)),
		symptom(at(3, 22, 0)),
	}

	patterns := NewTemporalPatternAnalyzer(utc).Analyze(nil, symptoms)
	if len(patterns) != 1 {
		t.Fatalf("expected only a day-of-week pattern, got %+v", patterns)
	}
	p := patterns[0]
	if p.Type != PatternDayOfWeek || p.Weekday != time.Monday {
		t.Fatalf("got %s on %v, want day_of_week on Monday", p.Type, p.Weekday)
	}
	// 3/4 + 0.2
	if !approx(p.Confidence, 0.95) {
		t.Errorf("Confidence = %f, want 0.95", p.Confidence)
	}
}

func TestTemporalPatternAnalyzer_DayOfWeekConfidence(t *testing.T) {
	symptoms := []models.Symptom{
		symptom(at(0, 1, 0)),
		symptom(at(7, 2, 0)),
		symptom(at(1, 3, 0)),
		symptom(at(2, 4, 0)),
		symptom(at(3, 5, 0)),
	}

	patterns := NewTemporalPatternAnalyzer(utc).Analyze(nil, symptoms)
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	// 2/5 + 0.2
	if !approx(patterns[0].Confidence, 0.6) {
		t.Errorf("Confidence = %f, want 0.6", patterns[0].Confidence)
	}
}

func TestTemporalPatternAnalyzer_MealTiming(t *testing.T) {
	var meals []models.Meal
	var symptoms []models.Symptom
	for day := 0; day < 3; day++ {
		meals = append(meals, meal(at(day, 8, 0), "Toast"))
		symptoms = append(symptoms, symptom(at(day, 11, 30)))
	}

	patterns := NewTemporalPatternAnalyzer(utc).Analyze(meals, symptoms)
	if len(patterns) != 2 {
		t.Fatalf("expected time-of-day and meal-timing patterns, got %+v", patterns)
	}
	if patterns[0].Type != PatternTimeOfDay {
		t.Errorf("first pattern = %q, want the higher-confidence time_of_day", patterns[0].Type)
	}

	timing := patterns[1]
	if timing.Type != PatternMealTiming {
		t.Fatalf("second pattern = %q, want meal_timing", timing.Type)
	}
	if timing.Occurrences != 3 {
		t.Errorf("Occurrences = %d, want 3 pairs", timing.Occurrences)
	}
	if timing.AverageDelay != 3*time.Hour+30*time.Minute {
		t.Errorf("AverageDelay = %v, want 3h30m", timing.AverageDelay)
	}
	if timing.DelayHours() != 3 {
		t.Errorf("DelayHours() = %d, want 3", timing.DelayHours())
	}
	if !approx(timing.Confidence, 0.8) {
		t.Errorf("Confidence = %f, want 0.8", timing.Confidence)
	}
}

func TestTemporalPatternAnalyzer_MealTimingNeedsThreePairs(t *testing.T) {
	meals := []models.Meal{meal(at(0, 8, 0), "Toast")}
	symptoms := []models.Symptom{
		symptom(at(0, 8, 30)),  // under 1h
		symptom(at(0, 10, 0)),  // 2h
		symptom(at(0, 21, 0)),  // 13h
		symptom(at(1, 4, 0)),   // 20h
	}
	for _, p := range NewTemporalPatternAnalyzer(utc).Analyze(meals, symptoms) {
		if p.Type == PatternMealTiming {
			t.Errorf("unexpected meal timing pattern from a single pair: %+v", p)
		}
	}
}

func TestTemporalPatternAnalyzer_Empty(t *testing.T) {
	if got := NewTemporalPatternAnalyzer(utc).Analyze([]models.Meal{meal(at(0, 8, 0), "Toast")}, nil); len(got) != 0 {
		t.Errorf("expected no patterns without symptoms, got %d", len(got))
	}
}
