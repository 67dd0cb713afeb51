package analysis

import (
	"fmt"
	"sort"
	"time"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
	"mcp-gut-check/internal/temporal"
)

const (
	minPeakHourCount   = 3
	minWorstDayCount   = 2
	minMealTimingPairs = 3
	mealTimingConf     = 0.8
)

// TemporalPatternAnalyzer finds recurring time-of-day, weekday and
// meal-to-symptom delay clusters.
type TemporalPatternAnalyzer struct {
	cal temporal.Calendar
}

func NewTemporalPatternAnalyzer(cal temporal.Calendar) *TemporalPatternAnalyzer {
	return &TemporalPatternAnalyzer{cal: cal}
}

func (a *TemporalPatternAnalyzer) Analyze(meals []models.Meal, symptoms []models.Symptom) []TemporalPattern {
	if len(symptoms) == 0 {
		return nil
	}

	timestamps := make([]time.Time, len(symptoms))
	for i, s := range symptoms {
		timestamps[i] = s.Timestamp
	}
	total := len(symptoms)

	var patterns []TemporalPattern
	if p, ok := a.timeOfDay(timestamps, total); ok {
		patterns = append(patterns, p)
	}
	if p, ok := a.dayOfWeek(timestamps, total); ok {
		patterns = append(patterns, p)
	}
	if p, ok := a.mealTiming(meals, symptoms); ok {
		patterns = append(patterns, p)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})
	return patterns
}

func (a *TemporalPatternAnalyzer) timeOfDay(timestamps []time.Time, total int) (TemporalPattern, bool) {
	hour, count := temporal.PeakHour(a.cal.BucketByHourOfDay(timestamps))
	if count < minPeakHourCount {
		return TemporalPattern{}, false
	}
	return TemporalPattern{
		Type:        PatternTimeOfDay,
		Hour:        hour,
		Occurrences: count,
		Total:       total,
		Confidence:  scoring.Score(scoring.Ratio(float64(count), float64(total)), scoring.If(true, 0.3)),
		Recommendations: []string{
			fmt.Sprintf("Review what you eat and do in the hours before %s.", formatHour(hour)),
			"Consider adjusting meal times or composition earlier in the day.",
		},
	}, true
}

func (a *TemporalPatternAnalyzer) dayOfWeek(timestamps []time.Time, total int) (TemporalPattern, bool) {
	day, count := temporal.PeakWeekday(a.cal.BucketByWeekday(timestamps))
	if count < minWorstDayCount {
		return TemporalPattern{}, false
	}
	return TemporalPattern{
		Type:        PatternDayOfWeek,
		Weekday:     day,
		Occurrences: count,
		Total:       total,
		Confidence:  scoring.Score(scoring.Ratio(float64(count), float64(total)), scoring.If(true, 0.2)),
		Recommendations: []string{
			fmt.Sprintf("Look at your routine on %ss: meals out, schedule changes or stress.", day),
			fmt.Sprintf("Plan simpler, familiar meals ahead of %s.", day),
		},
	}, true
}

func (a *TemporalPatternAnalyzer) mealTiming(meals []models.Meal, symptoms []models.Symptom) (TemporalPattern, bool) {
	var pairs int
	var totalDelay time.Duration
	for _, meal := range meals {
		for _, s := range symptoms {
			if temporal.IsWithinCausalWindow(meal.Timestamp, s.Timestamp, temporal.MealTimingMin, temporal.MealTimingMax) {
				pairs++
				totalDelay += s.Timestamp.Sub(meal.Timestamp)
			}
		}
	}
	if pairs < minMealTimingPairs {
		return TemporalPattern{}, false
	}

	p := TemporalPattern{
		Type:         PatternMealTiming,
		AverageDelay: totalDelay / time.Duration(pairs),
		Occurrences:  pairs,
		Total:        len(symptoms),
		Confidence:   scoring.Clamp(mealTimingConf),
	}
	p.Recommendations = []string{
		fmt.Sprintf("Symptoms tend to appear about %d hours after eating; log meals within that window carefully.", p.DelayHours()),
		"Try smaller, more frequent meals to see if the delay pattern changes.",
	}
	return p, true
}

func formatHour(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3 PM")
}
