// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mcp-gut-check/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStorage struct {
	db *sql.DB
}

// Open opens (or creates) the database file at dbPath.
func Open(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return initStorage(db)
}

// OpenMemory creates a private in-memory database, used by tests.
func OpenMemory() (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every new connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	return initStorage(db)
}

func initStorage(db *sql.DB) (*SQLiteStorage, error) {
	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        description TEXT NOT NULL DEFAULT '',
        timestamp TEXT NOT NULL,
        source TEXT NOT NULL DEFAULT 'manual',
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_id TEXT NOT NULL,
        name TEXT NOT NULL,
        brand TEXT NOT NULL DEFAULT '',
        ingredients TEXT NOT NULL DEFAULT '[]',
        calories REAL NOT NULL DEFAULT 0,
        protein REAL NOT NULL DEFAULT 0,
        carbs REAL NOT NULL DEFAULT 0,
        fat REAL NOT NULL DEFAULT 0,
        fiber REAL NOT NULL DEFAULT 0,
        sugar REAL NOT NULL DEFAULT 0,
        sodium REAL NOT NULL DEFAULT 0,
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS symptoms (
        id TEXT PRIMARY KEY,
        timestamp TEXT NOT NULL,
        stool_type INTEGER NOT NULL,
        pain_level INTEGER NOT NULL DEFAULT 0,
        urgency_level INTEGER NOT NULL DEFAULT 0,
        notes TEXT NOT NULL DEFAULT '',
        tags TEXT NOT NULL DEFAULT '[]',
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS wearable_samples (
        id TEXT PRIMARY KEY,
        type TEXT NOT NULL CHECK(type IN ('steps','sleep')),
        start_time TEXT NOT NULL,
        end_time TEXT NOT NULL,
        value REAL NOT NULL DEFAULT 0,
        source TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS insight_reports (
        id TEXT PRIMARY KEY,
        window_start TEXT NOT NULL,
        window_end TEXT NOT NULL,
        generated_at TEXT NOT NULL,
        trigger_kind TEXT NOT NULL DEFAULT 'manual',
        insights TEXT NOT NULL DEFAULT '[]'
    );

    CREATE INDEX IF NOT EXISTS idx_meals_timestamp ON meals(timestamp);
    CREATE INDEX IF NOT EXISTS idx_foods_meal_id ON foods(meal_id);
    CREATE INDEX IF NOT EXISTS idx_symptoms_timestamp ON symptoms(timestamp);
    CREATE INDEX IF NOT EXISTS idx_wearable_start ON wearable_samples(start_time);
    CREATE INDEX IF NOT EXISTS idx_reports_generated ON insight_reports(generated_at);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// windowClause appends a range filter on column for a valid window.
func windowClause(query string, args []interface{}, column string, window models.TimeWindow) (string, []interface{}) {
	if !window.Start.IsZero() {
		query += " AND " + column + " >= ?"
		args = append(args, formatTime(window.Start))
	}
	if !window.End.IsZero() {
		query += " AND " + column + " <= ?"
		args = append(args, formatTime(window.End))
	}
	return query, args
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	var list []string
	if data == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
