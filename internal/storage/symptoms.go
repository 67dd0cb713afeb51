// internal/storage/symptoms.go
package storage

import (
	"context"
	"fmt"

	"mcp-gut-check/internal/models"
)

func (s *SQLiteStorage) SaveSymptom(ctx context.Context, symptom *models.Symptom) error {
	tags, err := encodeList(symptom.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
        INSERT INTO symptoms (id, timestamp, stool_type, pain_level, urgency_level, notes, tags, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.ExecContext(ctx, query,
		symptom.ID, formatTime(symptom.Timestamp), int(symptom.StoolType),
		int(symptom.PainLevel), int(symptom.UrgencyLevel), symptom.Notes, tags,
		formatTime(symptom.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert symptom: %w", err)
	}
	return nil
}

// GetSymptoms returns symptoms inside window, newest first.
func (s *SQLiteStorage) GetSymptoms(ctx context.Context, window models.TimeWindow, limit int) ([]models.Symptom, error) {
	query := `
        SELECT id, timestamp, stool_type, pain_level, urgency_level, notes, tags, created_at
        FROM symptoms
        WHERE 1=1
    `
	query, args := windowClause(query, nil, "timestamp", window)
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query symptoms: %w", err)
	}
	defer rows.Close()

	var symptoms []models.Symptom
	for rows.Next() {
		var sym models.Symptom
		var timestampStr, createdAtStr, tags string
		var stool, pain, urgency int

		err := rows.Scan(&sym.ID, &timestampStr, &stool, &pain, &urgency,
			&sym.Notes, &tags, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan symptom: %w", err)
		}
		sym.StoolType = models.StoolType(stool)
		sym.PainLevel = models.PainLevel(pain)
		sym.UrgencyLevel = models.UrgencyLevel(urgency)

		if sym.Timestamp, err = parseTime("timestamp", timestampStr); err != nil {
			return nil, err
		}
		if sym.CreatedAt, err = parseTime("created_at", createdAtStr); err != nil {
			return nil, err
		}
		if sym.Tags, err = decodeList(tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		symptoms = append(symptoms, sym)
	}

	return symptoms, rows.Err()
}
