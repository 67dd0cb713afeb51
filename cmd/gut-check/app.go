// cmd/gut-check/app.go
package main

import (
	"fmt"

	"mcp-gut-check/internal/analysis"
	"mcp-gut-check/internal/config"
	"mcp-gut-check/internal/engine"
	"mcp-gut-check/internal/report"
	"mcp-gut-check/internal/storage"
	"mcp-gut-check/internal/temporal"
)

// app holds the components shared by the serve and analyze commands.
type app struct {
	cfg     *config.Config
	storage *storage.SQLiteStorage
	engine  *engine.Engine
	reports *report.Generator
}

func newApp(cfg *config.Config) (*app, error) {
	cal, err := temporal.LoadCalendar(cfg.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	stor, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	eng := engine.New(
		engine.WithCalendar(cal),
		engine.WithFiberNormalization(analysis.FiberNormalization(cfg.Analysis.FiberNormalization)),
	)

	return &app{
		cfg:     cfg,
		storage: stor,
		engine:  eng,
		reports: report.NewGenerator(stor, eng),
	}, nil
}

func (a *app) Close() error {
	return a.storage.Close()
}
