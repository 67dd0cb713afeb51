// internal/models/report.go
package models

import "time"

// InsightReport is one persisted engine run.
type InsightReport struct {
	ID          string     `json:"id"`
	Window      TimeWindow `json:"window"`
	GeneratedAt time.Time  `json:"generated_at"`
	Trigger     string     `json:"trigger"` // "manual", "scheduled"
	Insights    []Insight  `json:"insights"`
}
