// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/report"
)

const defaultListLimit = 20

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error)

type tool struct {
	name        string
	description string
	options     []mcp.ToolOption
	handler     toolHandler
}

type LogMealParams struct {
	Description string            `json:"description" description:"Description of the meal eaten"`
	Timestamp   string            `json:"timestamp,omitempty" description:"ISO timestamp of when meal was eaten (defaults to now)"`
	Foods       []models.FoodItem `json:"foods,omitempty" description:"Foods in the meal with optional brand, ingredients and nutrients"`
}

type ListParams struct {
	StartDate string `json:"start_date,omitempty" description:"Start date (YYYY-MM-DD or RFC3339)"`
	EndDate   string `json:"end_date,omitempty" description:"End date, inclusive (YYYY-MM-DD or RFC3339)"`
	Limit     int    `json:"limit,omitempty" description:"Maximum number of records to return"`
}

type LogSymptomParams struct {
	Timestamp    string   `json:"timestamp,omitempty"`
	StoolType    int      `json:"stool_type"`
	PainLevel    int      `json:"pain_level,omitempty"`
	UrgencyLevel int      `json:"urgency_level,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type LogWearableSampleParams struct {
	Type   string  `json:"type"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Value  float64 `json:"value,omitempty"`
	Source string  `json:"source,omitempty"`
}

type GenerateInsightsParams struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Days      int    `json:"days,omitempty"`
	Save      *bool  `json:"save,omitempty"`
}

func (s *GutCheckServer) toolset() []tool {
	return []tool{
		{
			name:        "log_meal",
			description: "Log a meal with its foods, ingredients and nutrients.",
			options: []mcp.ToolOption{
				mcp.WithString("description", mcp.Description("Description of the meal eaten")),
				mcp.WithString("timestamp", mcp.Description("RFC3339 time the meal was eaten (defaults to now)")),
				mcp.WithArray("foods", mcp.Description("Foods: name, brand, ingredients, nutrients{calories, protein, carbs, fat, fiber, sugar, sodium}")),
			},
			handler: s.handleLogMeal,
		},
		{
			name:        "get_meals",
			description: "List logged meals, newest first.",
			options:     listOptions(),
			handler:     s.handleGetMeals,
		},
		{
			name:        "log_symptom",
			description: "Log a digestive symptom on the Bristol stool scale with pain and urgency.",
			options: []mcp.ToolOption{
				mcp.WithNumber("stool_type", mcp.Required(), mcp.Description("Bristol stool type 1-7")),
				mcp.WithNumber("pain_level", mcp.Description("Pain 0 (none) to 4 (extreme)")),
				mcp.WithNumber("urgency_level", mcp.Description("Urgency 0 (none) to 3 (urgent)")),
				mcp.WithString("timestamp", mcp.Description("RFC3339 time of the symptom (defaults to now)")),
				mcp.WithString("notes", mcp.Description("Free-text notes")),
				mcp.WithArray("tags", mcp.Description("Tags such as bloating or cramps")),
			},
			handler: s.handleLogSymptom,
		},
		{
			name:        "get_symptoms",
			description: "List logged symptoms, newest first.",
			options:     listOptions(),
			handler:     s.handleGetSymptoms,
		},
		{
			name:        "log_wearable_sample",
			description: "Record a step count or sleep interval from a wearable.",
			options: []mcp.ToolOption{
				mcp.WithString("type", mcp.Required(), mcp.Enum("steps", "sleep")),
				mcp.WithString("start", mcp.Required(), mcp.Description("RFC3339 start of the sample")),
				mcp.WithString("end", mcp.Required(), mcp.Description("RFC3339 end of the sample")),
				mcp.WithNumber("value", mcp.Description("Step count; unused for sleep")),
				mcp.WithString("source", mcp.Description("Device or app name")),
			},
			handler: s.handleLogWearableSample,
		},
		{
			name:        "generate_insights",
			description: "Analyze a window of diary data and return ranked insights.",
			options: []mcp.ToolOption{
				mcp.WithString("start_date", mcp.Description("Window start (YYYY-MM-DD or RFC3339)")),
				mcp.WithString("end_date", mcp.Description("Window end, inclusive (YYYY-MM-DD or RFC3339)")),
				mcp.WithNumber("days", mcp.Description("Trailing window length when no start date is given")),
				mcp.WithBoolean("save", mcp.Description("Persist the report (default true)")),
			},
			handler: s.handleGenerateInsights,
		},
		{
			name:        "get_latest_insights",
			description: "Return the most recently saved insight report.",
			handler:     s.handleGetLatestInsights,
		},
	}
}

func listOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD or RFC3339)")),
		mcp.WithString("end_date", mcp.Description("End date, inclusive (YYYY-MM-DD or RFC3339)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 20)")),
	}
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidParams, fmt.Sprintf(format, args...))
}

func (s *GutCheckServer) handleLogMeal(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	var params LogMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if strings.TrimSpace(params.Description) == "" && len(params.Foods) == 0 {
		return nil, invalid("meal description or foods are required")
	}
	for i, food := range params.Foods {
		if food.Key() == "" {
			return nil, invalid("foods[%d] has no name", i)
		}
	}

	timestamp, err := s.timestampOrNow(params.Timestamp)
	if err != nil {
		return nil, err
	}

	now := s.now()
	meal := &models.Meal{
		ID:          uuid.New().String(),
		Description: params.Description,
		Timestamp:   timestamp,
		Foods:       params.Foods,
		CreatedAt:   now,
		UpdatedAt:   now,
		Source:      "manual",
	}

	if err := s.storage.SaveMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}
	return meal, nil
}

func (s *GutCheckServer) handleGetMeals(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	window, limit, err := s.listWindow(req)
	if err != nil {
		return nil, err
	}

	meals, err := s.storage.GetMeals(ctx, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meals: %w", err)
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	return meals, nil
}

func (s *GutCheckServer) handleLogSymptom(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	var params LogSymptomParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	symptom := &models.Symptom{
		ID:           uuid.New().String(),
		StoolType:    models.StoolType(params.StoolType),
		PainLevel:    models.PainLevel(params.PainLevel),
		UrgencyLevel: models.UrgencyLevel(params.UrgencyLevel),
		Notes:        params.Notes,
		Tags:         params.Tags,
		CreatedAt:    s.now(),
	}
	if !symptom.StoolType.Valid() {
		return nil, invalid("stool_type must be between 1 and 7, got %d", params.StoolType)
	}
	if !symptom.PainLevel.Valid() {
		return nil, invalid("pain_level must be between 0 and 4, got %d", params.PainLevel)
	}
	if !symptom.UrgencyLevel.Valid() {
		return nil, invalid("urgency_level must be between 0 and 3, got %d", params.UrgencyLevel)
	}

	var err error
	if symptom.Timestamp, err = s.timestampOrNow(params.Timestamp); err != nil {
		return nil, err
	}

	if err := s.storage.SaveSymptom(ctx, symptom); err != nil {
		return nil, fmt.Errorf("failed to save symptom: %w", err)
	}
	return symptom, nil
}

func (s *GutCheckServer) handleGetSymptoms(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	window, limit, err := s.listWindow(req)
	if err != nil {
		return nil, err
	}

	symptoms, err := s.storage.GetSymptoms(ctx, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve symptoms: %w", err)
	}
	if symptoms == nil {
		symptoms = []models.Symptom{}
	}
	return symptoms, nil
}

func (s *GutCheckServer) handleLogWearableSample(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	var params LogWearableSampleParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	sample := &models.WearableSample{
		ID:     uuid.New().String(),
		Type:   models.SampleType(params.Type),
		Value:  params.Value,
		Source: params.Source,
	}
	if !sample.Type.Valid() {
		return nil, invalid("type must be steps or sleep, got %q", params.Type)
	}

	var err error
	if sample.Start, err = parseInstant("start", params.Start); err != nil {
		return nil, err
	}
	if sample.End, err = parseInstant("end", params.End); err != nil {
		return nil, err
	}
	if sample.End.Before(sample.Start) {
		return nil, invalid("end must not be before start")
	}
	if sample.Type == models.SampleSteps && sample.Value < 0 {
		return nil, invalid("step count must not be negative")
	}

	if err := s.storage.SaveWearableSample(ctx, sample); err != nil {
		return nil, fmt.Errorf("failed to save wearable sample: %w", err)
	}
	return sample, nil
}

func (s *GutCheckServer) handleGenerateInsights(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	var params GenerateInsightsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	days := params.Days
	if days <= 0 {
		days = s.config.Analysis.WindowDays
	}

	end := s.now()
	if params.EndDate != "" {
		var err error
		if end, err = s.parseDate("end_date", params.EndDate, true); err != nil {
			return nil, err
		}
	}
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	if params.StartDate != "" {
		var err error
		if start, err = s.parseDate("start_date", params.StartDate, false); err != nil {
			return nil, err
		}
	}

	window := models.TimeWindow{Start: start, End: end}
	if !window.Valid() {
		return nil, invalid("end_date must be after start_date")
	}

	save := params.Save == nil || *params.Save
	rep, err := s.reports.Generate(ctx, window, report.TriggerManual, save)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}
	return rep, nil
}

func (s *GutCheckServer) handleGetLatestInsights(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	rep, err := s.storage.LatestReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest insights: %w", err)
	}
	return rep, nil
}

func (s *GutCheckServer) listWindow(req *protocol.CallToolRequest) (models.TimeWindow, int, error) {
	var params ListParams
	if err := extractParams(req, &params); err != nil {
		return models.TimeWindow{}, 0, err
	}

	var window models.TimeWindow
	var err error
	if params.StartDate != "" {
		if window.Start, err = s.parseDate("start_date", params.StartDate, false); err != nil {
			return models.TimeWindow{}, 0, err
		}
	}
	if params.EndDate != "" {
		if window.End, err = s.parseDate("end_date", params.EndDate, true); err != nil {
			return models.TimeWindow{}, 0, err
		}
	}

	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	return window, params.Limit, nil
}

// parseDate accepts RFC3339 or a calendar date in the analysis timezone. A
// date-only end bound covers that whole day.
func (s *GutCheckServer) parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	loc := s.reports.Engine().Calendar().Location()
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, invalid("%s must be YYYY-MM-DD or RFC3339, got %q", field, value)
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}

func parseInstant(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, invalid("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalid("invalid %s format: %v", field, err)
	}
	return t, nil
}

func (s *GutCheckServer) timestampOrNow(value string) (time.Time, error) {
	if value == "" {
		return s.now(), nil
	}
	return parseInstant("timestamp", value)
}
