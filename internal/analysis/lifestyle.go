package analysis

import (
	"fmt"
	"sort"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
	"mcp-gut-check/internal/temporal"
)

const (
	lowStepThreshold    = 5000.0
	shortSleepHours     = 6.0
	highSymptomDayCount = 3
	exerciseConfidence  = 0.75
	sleepConfidence     = 0.8
	stressConfidence    = 0.7
)

// LifestyleCorrelationAnalyzer relates symptom days to steps, sleep and a
// symptom-clustering stress proxy.
type LifestyleCorrelationAnalyzer struct {
	cal temporal.Calendar
}

func NewLifestyleCorrelationAnalyzer(cal temporal.Calendar) *LifestyleCorrelationAnalyzer {
	return &LifestyleCorrelationAnalyzer{cal: cal}
}

// Analyze emits exercise, sleep and stress correlations in that order, each
// ordered by day. Meals are accepted for contract symmetry and currently unused.
func (a *LifestyleCorrelationAnalyzer) Analyze(meals []models.Meal, symptoms []models.Symptom, samples []models.WearableSample) []LifestyleCorrelation {
	if len(symptoms) == 0 {
		return nil
	}

	symptomDays := make(map[string]int)
	for _, s := range symptoms {
		symptomDays[a.cal.DayKey(s.Timestamp)]++
	}

	steps := make(map[string]float64)
	sleep := make(map[string]float64)
	for _, sample := range samples {
		switch sample.Type {
		case models.SampleSteps:
			steps[a.cal.DayKey(sample.Start)] += sample.Value
		case models.SampleSleep:
			// Night sleep crosses midnight; it counts toward the day it ends on.
			sleep[a.cal.DayKey(sample.End)] += sample.Duration().Hours()
		}
	}

	var out []LifestyleCorrelation
	out = append(out, a.exercise(symptomDays, steps)...)
	out = append(out, a.sleep(symptomDays, sleep)...)
	out = append(out, a.stress(symptomDays)...)
	return out
}

func (a *LifestyleCorrelationAnalyzer) exercise(symptomDays map[string]int, steps map[string]float64) []LifestyleCorrelation {
	var out []LifestyleCorrelation
	for _, day := range sortedKeys(symptomDays) {
		total, ok := steps[day]
		if !ok || total >= lowStepThreshold {
			continue
		}
		out = append(out, LifestyleCorrelation{
			Factor:       FactorExercise,
			Impact:       ImpactNegative,
			Day:          day,
			Value:        total,
			Threshold:    lowStepThreshold,
			SymptomCount: symptomDays[day],
			Confidence:   scoring.Clamp(exerciseConfidence),
			Recommendations: []string{
				"Aim for a 20-30 minute walk on most days; gentle movement supports digestion.",
				fmt.Sprintf("Try to reach at least %.0f steps on days you feel well enough.", lowStepThreshold),
			},
		})
	}
	return out
}

func (a *LifestyleCorrelationAnalyzer) sleep(symptomDays map[string]int, sleep map[string]float64) []LifestyleCorrelation {
	var out []LifestyleCorrelation
	for _, day := range sortedKeys(sleep) {
		hours := sleep[day]
		if hours >= shortSleepHours || symptomDays[day] < 1 {
			continue
		}
		out = append(out, LifestyleCorrelation{
			Factor:       FactorSleep,
			Impact:       ImpactNegative,
			Day:          day,
			Value:        hours,
			Threshold:    shortSleepHours,
			SymptomCount: symptomDays[day],
			Confidence:   scoring.Clamp(sleepConfidence),
			Recommendations: []string{
				"Aim for 7-9 hours of sleep with a consistent bedtime.",
				"Avoid large meals within 3 hours of going to bed.",
			},
		})
	}
	return out
}

func (a *LifestyleCorrelationAnalyzer) stress(symptomDays map[string]int) []LifestyleCorrelation {
	var out []LifestyleCorrelation
	for _, day := range sortedKeys(symptomDays) {
		n := symptomDays[day]
		if n < highSymptomDayCount {
			continue
		}
		out = append(out, LifestyleCorrelation{
			Factor:       FactorStress,
			Impact:       ImpactNegative,
			Day:          day,
			Value:        float64(n),
			Threshold:    highSymptomDayCount,
			SymptomCount: n,
			Confidence:   scoring.Clamp(stressConfidence),
			Recommendations: []string{
				"Note what was going on that day; stress often clusters digestive symptoms.",
				"Try a short breathing or relaxation exercise before meals.",
			},
		})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
