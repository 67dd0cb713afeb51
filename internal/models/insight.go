// internal/models/insight.go
package models

import (
	"math"
	"time"
)

type Category string

const (
	CategoryFoodTrigger          Category = "food_trigger"
	CategoryTemporalPattern      Category = "temporal_pattern"
	CategoryLifestyleCorrelation Category = "lifestyle_correlation"
	CategoryNutritionTrend       Category = "nutrition_trend"
)

// Icon returns the display icon key for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryFoodTrigger:
		return "fork.knife"
	case CategoryTemporalPattern:
		return "clock"
	case CategoryLifestyleCorrelation:
		return "figure.walk"
	case CategoryNutritionTrend:
		return "chart.line.uptrend.xyaxis"
	default:
		return "lightbulb"
	}
}

// TimeWindow bounds one analysis run.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Valid() bool {
	return w.End.After(w.Start)
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days is the window length rounded up to whole days, at least 1.
func (w TimeWindow) Days() int {
	if !w.Valid() {
		return 1
	}
	days := int(math.Ceil(w.End.Sub(w.Start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

type Insight struct {
	ID              string   `json:"id"`
	Category        Category `json:"category"`
	Icon            string   `json:"icon"`
	SubjectKey      string   `json:"subject_key"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Description     string   `json:"description,omitempty"`
	Confidence      int      `json:"confidence"`
	Evidence        []string `json:"evidence,omitempty"`
	Recommendations []string `json:"recommendations"`
	DateRange       string   `json:"date_range"`
}
