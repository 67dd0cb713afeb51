// internal/storage/reports.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mcp-gut-check/internal/models"
)

func (s *SQLiteStorage) SaveReport(ctx context.Context, report *models.InsightReport) error {
	insights := report.Insights
	if insights == nil {
		insights = []models.Insight{}
	}
	data, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	query := `
        INSERT INTO insight_reports (id, window_start, window_end, generated_at, trigger_kind, insights)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		report.ID, formatTime(report.Window.Start), formatTime(report.Window.End),
		formatTime(report.GeneratedAt), report.Trigger, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// LatestReport returns the most recently generated report or ErrNotFound.
func (s *SQLiteStorage) LatestReport(ctx context.Context) (*models.InsightReport, error) {
	query := `
        SELECT id, window_start, window_end, generated_at, trigger_kind, insights
        FROM insight_reports
        ORDER BY generated_at DESC
        LIMIT 1
    `
	var report models.InsightReport
	var startStr, endStr, generatedStr, data string

	err := s.db.QueryRowContext(ctx, query).Scan(
		&report.ID, &startStr, &endStr, &generatedStr, &report.Trigger, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}

	if report.Window.Start, err = parseTime("window_start", startStr); err != nil {
		return nil, err
	}
	if report.Window.End, err = parseTime("window_end", endStr); err != nil {
		return nil, err
	}
	if report.GeneratedAt, err = parseTime("generated_at", generatedStr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &report.Insights); err != nil {
		return nil, fmt.Errorf("failed to decode insights: %w", err)
	}
	return &report, nil
}
