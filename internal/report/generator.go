// Package report loads diary records for a window, runs the insight engine
// over them and optionally persists the result.
package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mcp-gut-check/internal/engine"
	"mcp-gut-check/internal/models"
)

const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// Store is the data access the generator needs.
type Store interface {
	GetMeals(ctx context.Context, window models.TimeWindow, limit int) ([]models.Meal, error)
	GetSymptoms(ctx context.Context, window models.TimeWindow, limit int) ([]models.Symptom, error)
	GetWearableSamples(ctx context.Context, window models.TimeWindow) ([]models.WearableSample, error)
	SaveReport(ctx context.Context, report *models.InsightReport) error
}

type Generator struct {
	store  Store
	engine *engine.Engine
	now    func() time.Time
}

func NewGenerator(store Store, eng *engine.Engine) *Generator {
	return &Generator{store: store, engine: eng, now: time.Now}
}

// Engine returns the engine reports are generated with.
func (g *Generator) Engine() *engine.Engine {
	return g.engine
}

// TrailingWindow is the window of days*24h ending now.
func (g *Generator) TrailingWindow(days int) models.TimeWindow {
	end := g.now()
	return models.TimeWindow{Start: end.Add(-time.Duration(days) * 24 * time.Hour), End: end}
}

// Generate runs the engine over window. The report is saved only when save
// is set.
func (g *Generator) Generate(ctx context.Context, window models.TimeWindow, trigger string, save bool) (*models.InsightReport, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("invalid window: end %s is not after start %s",
			window.End.Format(time.RFC3339), window.Start.Format(time.RFC3339))
	}

	meals, err := g.store.GetMeals(ctx, window, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}
	symptoms, err := g.store.GetSymptoms(ctx, window, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}
	samples, err := g.store.GetWearableSamples(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load wearable samples: %w", err)
	}

	report := &models.InsightReport{
		ID:          uuid.New().String(),
		Window:      window,
		GeneratedAt: g.now(),
		Trigger:     trigger,
		Insights:    g.engine.Run(window, meals, symptoms, samples),
	}

	if save {
		if err := g.store.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to save report: %w", err)
		}
		log.Printf("[report] saved %s report %s with %d insights", trigger, report.ID, len(report.Insights))
	}
	return report, nil
}
