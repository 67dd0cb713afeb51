package insights

import (
	"strings"
	"testing"
	"time"

	"mcp-gut-check/internal/analysis"
	"mcp-gut-check/internal/compounds"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/temporal"
)

var (
	start  = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	window = models.TimeWindow{Start: start, End: start.AddDate(0, 0, 7)}
	syn    = NewSynthesizer(temporal.NewCalendar(time.UTC))
)

func dairyTrigger(confidence float64) analysis.FoodTrigger {
	return analysis.FoodTrigger{
		FoodName:         "Dairy",
		Key:              "dairy",
		SymptomCount:     5,
		Occurrences:      5,
		CorrelationScore: 0.5,
		Confidence:       confidence,
		Compounds:        compounds.ClassifyCompounds("Dairy"),
		HighRiskCount:    1,
		Allergens:        []string{"dairy"},
		LastSeen:         start.Add(4*24*time.Hour + 8*time.Hour),
		Recommendations:  []string{"Try eliminating Dairy for 2-3 weeks and track whether your symptoms improve."},
	}
}

func TestSynthesize_SortsAcrossCategories(t *testing.T) {
	got := syn.Synthesize(
		[]analysis.FoodTrigger{dairyTrigger(0.6)},
		[]analysis.TemporalPattern{{Type: analysis.PatternTimeOfDay, Hour: 7, Occurrences: 4, Total: 5, Confidence: 0.95}},
		[]analysis.LifestyleCorrelation{{Factor: analysis.FactorExercise, Impact: analysis.ImpactNegative, Day: "2026-05-05", Value: 3000, Threshold: 5000, SymptomCount: 2, Confidence: 0.75}},
		[]analysis.NutritionTrend{{Type: analysis.TrendFiber, CurrentValue: 10, TargetValue: 25, Unit: "g/day", Confidence: 0.9}},
		window,
	)

	if len(got) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(got))
	}
	wantOrder := []models.Category{
		models.CategoryTemporalPattern,
		models.CategoryNutritionTrend,
		models.CategoryLifestyleCorrelation,
		models.CategoryFoodTrigger,
	}
	for i, c := range wantOrder {
		if got[i].Category != c {
			t.Errorf("[%d] category = %q, want %q", i, got[i].Category, c)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("not sorted: %d then %d", got[i-1].Confidence, got[i].Confidence)
		}
	}
	if got[0].Confidence != 95 {
		t.Errorf("Confidence = %d, want 95", got[0].Confidence)
	}
}

func TestSynthesize_TiesKeepEmissionOrder(t *testing.T) {
	got := syn.Synthesize(
		[]analysis.FoodTrigger{dairyTrigger(0.8)},
		[]analysis.TemporalPattern{{Type: analysis.PatternMealTiming, AverageDelay: 3 * time.Hour, Occurrences: 3, Total: 3, Confidence: 0.8}},
		nil,
		[]analysis.NutritionTrend{{Type: analysis.TrendMealTiming, Hour: 12, Occurrences: 4, CurrentValue: 4, TargetValue: 7, Confidence: 0.8}},
		window,
	)
	want := []models.Category{models.CategoryFoodTrigger, models.CategoryTemporalPattern, models.CategoryNutritionTrend}
	if len(got) != len(want) {
		t.Fatalf("expected %d insights, got %d", len(want), len(got))
	}
	for i, c := range want {
		if got[i].Category != c {
			t.Errorf("[%d] = %q, want %q", i, got[i].Category, c)
		}
	}
}

func TestSynthesize_FoodTriggerText(t *testing.T) {
	got := syn.Synthesize([]analysis.FoodTrigger{dairyTrigger(0.9)}, nil, nil, nil, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(got))
	}
	in := got[0]

	if in.Title == "" || in.Summary == "" {
		t.Fatal("title and summary must not be empty")
	}
	if !strings.Contains(in.Description, "Dairy appears to be triggering") {
		t.Errorf("description missing trigger sentence: %q", in.Description)
	}
	if !strings.Contains(in.Description, "90% confidence") {
		t.Errorf("description missing confidence: %q", in.Description)
	}
	if !strings.Contains(in.Description, "within 2-8 hours") {
		t.Errorf("description missing causal window: %q", in.Description)
	}
	if !strings.Contains(in.Description, "Lactose") {
		t.Errorf("description missing high-risk compound: %q", in.Description)
	}
	if in.Icon != models.CategoryFoodTrigger.Icon() {
		t.Errorf("Icon = %q, want %q", in.Icon, models.CategoryFoodTrigger.Icon())
	}
	if in.DateRange != "May 4 - May 11, 2026" {
		t.Errorf("DateRange = %q", in.DateRange)
	}
	if in.SubjectKey != "dairy" {
		t.Errorf("SubjectKey = %q, want dairy", in.SubjectKey)
	}
	if len(in.Recommendations) != 1 {
		t.Errorf("Recommendations = %v", in.Recommendations)
	}
}

func TestSynthesize_MergesSameSubject(t *testing.T) {
	first := dairyTrigger(0.5)
	second := dairyTrigger(0.7)
	second.Recommendations = append(second.Recommendations, "Try lactose-free milk.")

	got := syn.Synthesize([]analysis.FoodTrigger{first, second}, nil, nil, nil, window)
	if len(got) != 1 {
		t.Fatalf("expected a single merged insight, got %d", len(got))
	}
	if got[0].Confidence != 70 {
		t.Errorf("Confidence = %d, want the higher 70", got[0].Confidence)
	}
	if len(got[0].Recommendations) != 2 {
		t.Errorf("Recommendations = %v, want the union of both", got[0].Recommendations)
	}
}

func TestSynthesize_NoCrossCategoryDedup(t *testing.T) {
	got := syn.Synthesize(
		nil,
		[]analysis.TemporalPattern{{Type: analysis.PatternMealTiming, AverageDelay: 2 * time.Hour, Occurrences: 3, Total: 3, Confidence: 0.8}},
		nil,
		[]analysis.NutritionTrend{{Type: analysis.TrendMealTiming, Hour: 8, Occurrences: 5, CurrentValue: 5, TargetValue: 7, Confidence: 0.8}},
		window,
	)
	if len(got) != 2 {
		t.Fatalf("expected both meal_timing insights to survive, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Error("insights in different categories must have different ids")
	}
}

func TestSynthesize_DeterministicIDs(t *testing.T) {
	a := syn.Synthesize([]analysis.FoodTrigger{dairyTrigger(0.9)}, nil, nil, nil, window)
	b := syn.Synthesize([]analysis.FoodTrigger{dairyTrigger(0.9)}, nil, nil, nil, window)
	if a[0].ID != b[0].ID {
		t.Errorf("ids differ across identical runs: %s vs %s", a[0].ID, b[0].ID)
	}
}

func TestSynthesize_ClampsConfidence(t *testing.T) {
	got := syn.Synthesize(
		nil,
		[]analysis.TemporalPattern{{Type: analysis.PatternTimeOfDay, Hour: 3, Occurrences: 9, Total: 9, Confidence: 1.4}},
		[]analysis.LifestyleCorrelation{{Factor: analysis.FactorStress, Day: "2026-05-06", Value: 4, SymptomCount: 4, Confidence: -0.2}},
		nil,
		window,
	)
	for _, in := range got {
		if in.Confidence < 0 || in.Confidence > 100 {
			t.Errorf("confidence %d outside [0, 100]", in.Confidence)
		}
	}
	if got[0].Confidence != 95 {
		t.Errorf("Confidence = %d, want 95", got[0].Confidence)
	}
}

func TestSynthesize_LifestyleText(t *testing.T) {
	got := syn.Synthesize(nil, nil, []analysis.LifestyleCorrelation{
		{Factor: analysis.FactorSleep, Impact: analysis.ImpactNegative, Day: "2026-05-05", Value: 5, Threshold: 6, SymptomCount: 1, Confidence: 0.8},
	}, nil, window)
	if len(got) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(got))
	}
	if !strings.Contains(got[0].Summary, "Tue, May 5") {
		t.Errorf("summary should name the day: %q", got[0].Summary)
	}
	if got[0].SubjectKey != "sleep:2026-05-05" {
		t.Errorf("SubjectKey = %q", got[0].SubjectKey)
	}
}

func TestSynthesize_Empty(t *testing.T) {
	got := syn.Synthesize(nil, nil, nil, nil, window)
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", got)
	}
}

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		name     string
		window   models.TimeWindow
		expected string
	}{
		{"same year", window, "May 4 - May 11, 2026"},
		{"across years", models.TimeWindow{Start: time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)}, "Dec 28, 2025 - Jan 4, 2026"},
		{"invalid", models.TimeWindow{}, "All time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := syn.FormatWindow(tt.window); got != tt.expected {
				t.Errorf("FormatWindow() = %q, want %q", got, tt.expected)
			}
		})
	}
}
