// Package engine runs the four analyzers over one window and synthesizes
// their findings into a ranked insight list.
package engine

import (
	"log"
	"sync"
	"time"

	"mcp-gut-check/internal/analysis"
	"mcp-gut-check/internal/insights"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/temporal"
)

// Engine is stateless between runs; one instance can serve concurrent callers.
type Engine struct {
	cal           temporal.Calendar
	normalization analysis.FiberNormalization
	quiet         bool

	foodTriggers *analysis.FoodTriggerAnalyzer
	patterns     *analysis.TemporalPatternAnalyzer
	lifestyle    *analysis.LifestyleCorrelationAnalyzer
	nutrition    *analysis.NutritionTrendAnalyzer
	synthesizer  *insights.Synthesizer
}

type Option func(*Engine)

// WithCalendar sets the timezone used for every day and hour bucket.
func WithCalendar(cal temporal.Calendar) Option {
	return func(e *Engine) { e.cal = cal }
}

// WithFiberNormalization selects how total fiber becomes a daily average.
func WithFiberNormalization(n analysis.FiberNormalization) Option {
	return func(e *Engine) { e.normalization = n }
}

// WithoutLogging silences the per-run summary line.
func WithoutLogging() Option {
	return func(e *Engine) { e.quiet = true }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		cal:           temporal.NewCalendar(time.UTC),
		normalization: analysis.FiberFixedWeek,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.foodTriggers = analysis.NewFoodTriggerAnalyzer(e.cal)
	e.patterns = analysis.NewTemporalPatternAnalyzer(e.cal)
	e.lifestyle = analysis.NewLifestyleCorrelationAnalyzer(e.cal)
	e.nutrition = analysis.NewNutritionTrendAnalyzer(e.cal, e.normalization)
	e.synthesizer = insights.NewSynthesizer(e.cal)
	return e
}

// Calendar returns the calendar the engine buckets with.
func (e *Engine) Calendar() temporal.Calendar {
	return e.cal
}

// Run analyzes the inputs and returns insights ordered by confidence. Inputs
// outside a valid window are ignored; empty inputs give an empty list.
func (e *Engine) Run(window models.TimeWindow, meals []models.Meal, symptoms []models.Symptom, samples []models.WearableSample) []models.Insight {
	started := time.Now()

	if window.Valid() {
		meals = mealsIn(window, meals)
		symptoms = symptomsIn(window, symptoms)
		samples = samplesIn(window, samples)
	}

	var (
		wg        sync.WaitGroup
		triggers  []analysis.FoodTrigger
		patterns  []analysis.TemporalPattern
		lifestyle []analysis.LifestyleCorrelation
		nutrition []analysis.NutritionTrend
	)

	// Each analyzer writes only its own result variable.
	wg.Add(4)
	go func() {
		defer wg.Done()
		triggers = e.foodTriggers.Analyze(meals, symptoms)
	}()
	go func() {
		defer wg.Done()
		patterns = e.patterns.Analyze(meals, symptoms)
	}()
	go func() {
		defer wg.Done()
		lifestyle = e.lifestyle.Analyze(meals, symptoms, samples)
	}()
	go func() {
		defer wg.Done()
		nutrition = e.nutrition.Analyze(meals, window)
	}()
	wg.Wait()

	out := e.synthesizer.Synthesize(triggers, patterns, lifestyle, nutrition, window)

	if !e.quiet {
		log.Printf("[engine] analyzed %d meals, %d symptoms, %d samples: %d insights (%d triggers, %d patterns, %d lifestyle, %d nutrition) in %v",
			len(meals), len(symptoms), len(samples), len(out),
			len(triggers), len(patterns), len(lifestyle), len(nutrition), time.Since(started))
	}
	return out
}

func mealsIn(w models.TimeWindow, meals []models.Meal) []models.Meal {
	var out []models.Meal
	for _, m := range meals {
		if w.Contains(m.Timestamp) {
			out = append(out, m)
		}
	}
	return out
}

func symptomsIn(w models.TimeWindow, symptoms []models.Symptom) []models.Symptom {
	var out []models.Symptom
	for _, s := range symptoms {
		if w.Contains(s.Timestamp) {
			out = append(out, s)
		}
	}
	return out
}

// samplesIn keeps samples that overlap the window.
func samplesIn(w models.TimeWindow, samples []models.WearableSample) []models.WearableSample {
	var out []models.WearableSample
	for _, s := range samples {
		if !s.End.Before(w.Start) && !s.Start.After(w.End) {
			out = append(out, s)
		}
	}
	return out
}
