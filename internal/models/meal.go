// internal/models/meal.go
package models

import (
	"strings"
	"time"
)

type Meal struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
	Foods       []FoodItem `json:"foods"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Source      string     `json:"source"` // "manual", "imported"
}

type FoodItem struct {
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Nutrients   Nutrients `json:"nutrients"`
}

// Nutrients holds per-item nutrition. Missing values decode as zero and
// contribute nothing to trends.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Key returns the name used to merge repeated observations of the same food.
func (f FoodItem) Key() string {
	return strings.ToLower(strings.TrimSpace(f.Name))
}

// TotalFiber sums fiber grams over every food in the meal.
func (m *Meal) TotalFiber() float64 {
	var total float64
	for _, f := range m.Foods {
		total += f.Nutrients.Fiber
	}
	return total
}
