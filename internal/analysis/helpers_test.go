package analysis

import (
	"fmt"
	"math"
	"time"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/temporal"
)

// monday is the first day of the fixture week.
var monday = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

var utc = temporal.NewCalendar(time.UTC)

func at(day int, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func meal(ts time.Time, foods ...string) models.Meal {
	m := models.Meal{ID: fmt.Sprintf("meal-%d", ts.Unix()), Timestamp: ts}
	for _, f := range foods {
		m.Foods = append(m.Foods, models.FoodItem{Name: f})
	}
	return m
}

func fiberMeal(ts time.Time, grams float64) models.Meal {
	return models.Meal{
		ID:        fmt.Sprintf("meal-%d", ts.Unix()),
		Timestamp: ts,
		Foods:     []models.FoodItem{{Name: "Porridge", Nutrients: models.Nutrients{Fiber: grams}}},
	}
}

func symptom(ts time.Time) models.Symptom {
	return models.Symptom{ID: fmt.Sprintf("sym-%d", ts.UnixNano()), Timestamp: ts, StoolType: models.StoolMildDiarrhea, PainLevel: models.PainModerate}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
