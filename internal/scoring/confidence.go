// Package scoring holds the confidence policy shared by every analyzer.
//
// Internal confidences live in [0, MaxConfidence]; 1.0 is never reached.
// Percent converts them to the integer scale shown to users.
package scoring

import "math"

// MaxConfidence caps every internal confidence value.
const MaxConfidence = 0.95

// Boost is an additive adjustment applied when When is true.
type Boost struct {
	When  bool
	Delta float64
}

// If builds a Boost.
func If(when bool, delta float64) Boost {
	return Boost{When: when, Delta: delta}
}

// FirstOf returns the first applicable boost among mutually exclusive tiers.
func FirstOf(tiers ...Boost) Boost {
	for _, b := range tiers {
		if b.When {
			return b
		}
	}
	return Boost{}
}

// Score adds every applicable boost to base and clamps the result.
func Score(base float64, boosts ...Boost) float64 {
	score := base
	for _, b := range boosts {
		if b.When {
			score += b.Delta
		}
	}
	return Clamp(score)
}

// Clamp bounds c to [0, MaxConfidence]. NaN maps to 0.
func Clamp(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

// Ratio returns n/d, or 0 when d is not positive.
func Ratio(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return n / d
}

// Saturating returns min(1, n/scale).
func Saturating(n, scale float64) float64 {
	return math.Min(1.0, Ratio(n, scale))
}

// Percent renders a confidence as an integer in [0, 100].
func Percent(c float64) int {
	if math.IsNaN(c) {
		return 0
	}
	p := int(math.Round(c * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
