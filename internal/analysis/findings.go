// Package analysis implements the four correlation strategies of the insight
// engine. Every analyzer is a pure function of its inputs; none keeps state
// between calls, so they can run concurrently over the same slices.
package analysis

import (
	"time"

	"mcp-gut-check/internal/compounds"
)

// FoodTrigger is a food whose consumption was repeatedly followed by symptoms.
type FoodTrigger struct {
	FoodName         string               `json:"food_name"`
	Key              string               `json:"key"`
	SymptomCount     int                  `json:"symptom_count"`
	Occurrences      int                  `json:"occurrences"`
	CorrelationScore float64              `json:"correlation_score"`
	Confidence       float64              `json:"confidence"`
	Compounds        []compounds.Compound `json:"compounds,omitempty"`
	HighRiskCount    int                  `json:"high_risk_count"`
	Allergens        []string             `json:"allergens,omitempty"`
	LastSeen         time.Time            `json:"last_seen"`
	Recommendations  []string             `json:"recommendations"`
}

type PatternType string

const (
	PatternTimeOfDay  PatternType = "time_of_day"
	PatternDayOfWeek  PatternType = "day_of_week"
	PatternMealTiming PatternType = "meal_timing"
)

// TemporalPattern is a recurring clock, weekday or meal-delay cluster.
type TemporalPattern struct {
	Type            PatternType   `json:"type"`
	Hour            int           `json:"hour,omitempty"`
	Weekday         time.Weekday  `json:"weekday,omitempty"`
	AverageDelay    time.Duration `json:"average_delay,omitempty"`
	Occurrences     int           `json:"occurrences"`
	Total           int           `json:"total"`
	Confidence      float64       `json:"confidence"`
	Recommendations []string      `json:"recommendations"`
}

// DelayHours is the average meal-to-symptom delay in whole hours.
func (p TemporalPattern) DelayHours() int {
	return int(p.AverageDelay.Hours())
}

type LifestyleFactor string

const (
	FactorExercise LifestyleFactor = "exercise"
	FactorSleep    LifestyleFactor = "sleep"
	FactorStress   LifestyleFactor = "stress"
)

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// LifestyleCorrelation ties a day's symptoms to an activity, sleep or stress proxy.
type LifestyleCorrelation struct {
	Factor          LifestyleFactor `json:"factor"`
	Impact          Impact          `json:"impact"`
	Day             string          `json:"day"`
	Value           float64         `json:"value"`
	Threshold       float64         `json:"threshold"`
	SymptomCount    int             `json:"symptom_count"`
	Confidence      float64         `json:"confidence"`
	Recommendations []string        `json:"recommendations"`
}

type NutritionTrendType string

const (
	TrendFiber      NutritionTrendType = "fiber"
	TrendMealTiming NutritionTrendType = "meal_timing"
)

// NutritionTrend compares an intake measure with its target.
type NutritionTrend struct {
	Type            NutritionTrendType `json:"type"`
	CurrentValue    float64            `json:"current_value"`
	TargetValue     float64            `json:"target_value"`
	Unit            string             `json:"unit"`
	Hour            int                `json:"hour,omitempty"`
	Occurrences     int                `json:"occurrences,omitempty"`
	Confidence      float64            `json:"confidence"`
	Recommendations []string           `json:"recommendations"`
}
