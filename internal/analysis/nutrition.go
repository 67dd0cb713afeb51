package analysis

import (
	"fmt"
	"time"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
	"mcp-gut-check/internal/temporal"
)

// FiberNormalization selects the divisor used to turn total fiber into a daily average.
type FiberNormalization string

const (
	// FiberFixedWeek always divides by 7, whatever the window length.
	FiberFixedWeek FiberNormalization = "fixed_week"
	// FiberWindowDays divides by the window length in days.
	FiberWindowDays FiberNormalization = "window_days"
)

func (n FiberNormalization) Valid() bool {
	return n == FiberFixedWeek || n == FiberWindowDays
}

const (
	fiberTargetGrams      = 25.0
	fiberConfidence       = 0.9
	mealTimingLookback    = 7 * 24 * time.Hour
	minModalMealHourCount = 4
	mealsPerWeekTarget    = 7.0
	mealConsistencyConf   = 0.8
)

// NutritionTrendAnalyzer evaluates fiber intake and meal-time regularity.
type NutritionTrendAnalyzer struct {
	cal           temporal.Calendar
	normalization FiberNormalization
}

func NewNutritionTrendAnalyzer(cal temporal.Calendar, normalization FiberNormalization) *NutritionTrendAnalyzer {
	if !normalization.Valid() {
		normalization = FiberFixedWeek
	}
	return &NutritionTrendAnalyzer{cal: cal, normalization: normalization}
}

// Analyze inspects the meals of one window. The window sets the fiber divisor
// under FiberWindowDays and anchors the 7-day meal-timing lookback; with an
// invalid window the latest meal is the anchor.
func (a *NutritionTrendAnalyzer) Analyze(meals []models.Meal, window models.TimeWindow) []NutritionTrend {
	if len(meals) == 0 {
		return nil
	}

	var trends []NutritionTrend
	if t, ok := a.fiber(meals, window); ok {
		trends = append(trends, t)
	}
	if t, ok := a.mealTiming(meals, window); ok {
		trends = append(trends, t)
	}
	return trends
}

func (a *NutritionTrendAnalyzer) fiberDivisor(window models.TimeWindow) float64 {
	if a.normalization == FiberWindowDays && window.Valid() {
		return float64(window.Days())
	}
	return 7
}

func (a *NutritionTrendAnalyzer) fiber(meals []models.Meal, window models.TimeWindow) (NutritionTrend, bool) {
	var total float64
	for i := range meals {
		total += meals[i].TotalFiber()
	}
	daily := scoring.Ratio(total, a.fiberDivisor(window))
	if daily >= fiberTargetGrams {
		return NutritionTrend{}, false
	}
	return NutritionTrend{
		Type:         TrendFiber,
		CurrentValue: daily,
		TargetValue:  fiberTargetGrams,
		Unit:         "g/day",
		Confidence:   scoring.Clamp(fiberConfidence),
		Recommendations: []string{
			"Add fiber gradually, about 5g per week, to avoid bloating.",
			"Include oats, berries, chia seeds, vegetables or whole grains you tolerate well.",
			"Drink more water as you increase fiber intake.",
		},
	}, true
}

func (a *NutritionTrendAnalyzer) mealTiming(meals []models.Meal, window models.TimeWindow) (NutritionTrend, bool) {
	ref := window.End
	if !window.Valid() {
		ref = time.Time{}
		for _, m := range meals {
			if m.Timestamp.After(ref) {
				ref = m.Timestamp
			}
		}
	}
	since := ref.Add(-mealTimingLookback)

	var recent []time.Time
	for _, m := range meals {
		if m.Timestamp.After(since) && !m.Timestamp.After(ref) {
			recent = append(recent, m.Timestamp)
		}
	}

	hour, count := temporal.PeakHour(a.cal.BucketByHourOfDay(recent))
	if count < minModalMealHourCount {
		return NutritionTrend{}, false
	}
	return NutritionTrend{
		Type:         TrendMealTiming,
		CurrentValue: float64(count),
		TargetValue:  mealsPerWeekTarget,
		Unit:         "meals/week",
		Hour:         hour,
		Occurrences:  count,
		Confidence:   scoring.Clamp(mealConsistencyConf),
		Recommendations: []string{
			fmt.Sprintf("You often eat around %s; keeping regular meal times helps digestion.", formatHour(hour)),
			"Space meals 3-4 hours apart and avoid skipping meals.",
		},
	}, true
}
