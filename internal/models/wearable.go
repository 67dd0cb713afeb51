// internal/models/wearable.go
package models

import "time"

type SampleType string

const (
	SampleSteps SampleType = "steps"
	SampleSleep SampleType = "sleep"
)

func (t SampleType) Valid() bool {
	return t == SampleSteps || t == SampleSleep
}

// WearableSample is one reading from a health-data store. For steps, Value is
// the step count over [Start, End]; sleep samples carry their length in the interval.
type WearableSample struct {
	ID     string     `json:"id"`
	Type   SampleType `json:"type"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Value  float64    `json:"value"`
	Source string     `json:"source,omitempty"`
}

func (w WearableSample) Duration() time.Duration {
	if w.End.Before(w.Start) {
		return 0
	}
	return w.End.Sub(w.Start)
}
