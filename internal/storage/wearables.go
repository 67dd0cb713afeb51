// internal/storage/wearables.go
package storage

import (
	"context"
	"fmt"

	"mcp-gut-check/internal/models"
)

func (s *SQLiteStorage) SaveWearableSample(ctx context.Context, sample *models.WearableSample) error {
	query := `
        INSERT INTO wearable_samples (id, type, start_time, end_time, value, source)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, query,
		sample.ID, string(sample.Type), formatTime(sample.Start), formatTime(sample.End),
		sample.Value, sample.Source)
	if err != nil {
		return fmt.Errorf("failed to insert wearable sample: %w", err)
	}
	return nil
}

// GetWearableSamples returns samples overlapping window, oldest first.
func (s *SQLiteStorage) GetWearableSamples(ctx context.Context, window models.TimeWindow) ([]models.WearableSample, error) {
	query := `
        SELECT id, type, start_time, end_time, value, source
        FROM wearable_samples
        WHERE 1=1
    `
	var args []interface{}
	if !window.End.IsZero() {
		query += " AND start_time <= ?"
		args = append(args, formatTime(window.End))
	}
	if !window.Start.IsZero() {
		query += " AND end_time >= ?"
		args = append(args, formatTime(window.Start))
	}
	query += " ORDER BY start_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wearable samples: %w", err)
	}
	defer rows.Close()

	var samples []models.WearableSample
	for rows.Next() {
		var sample models.WearableSample
		var kind, startStr, endStr string

		if err := rows.Scan(&sample.ID, &kind, &startStr, &endStr, &sample.Value, &sample.Source); err != nil {
			return nil, fmt.Errorf("failed to scan wearable sample: %w", err)
		}
		sample.Type = models.SampleType(kind)
		if sample.Start, err = parseTime("start_time", startStr); err != nil {
			return nil, err
		}
		if sample.End, err = parseTime("end_time", endStr); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}
