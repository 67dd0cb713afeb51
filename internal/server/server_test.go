package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"mcp-gut-check/internal/config"
	"mcp-gut-check/internal/engine"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/report"
	"mcp-gut-check/internal/storage"
)

var monday = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

type toolResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func newTestServer(t *testing.T) (*GutCheckServer, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gen := report.NewGenerator(store, engine.New(engine.WithoutLogging()))
	srv := NewGutCheckServer(config.DefaultConfig(), store, gen)
	srv.now = func() time.Time { return monday.AddDate(0, 0, 7) }
	return srv, store
}

// call posts a tool request and returns the status and, on success, the
// JSON text payload.
func call(t *testing.T, srv *GutCheckServer, name string, args map[string]interface{}) (int, string) {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return rec.Code, rec.Body.String()
	}
	var resp toolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", resp.Content)
	}
	return rec.Code, resp.Content[0].Text
}

type fixedSchedule struct {
	next time.Time
	ok   bool
}

func (f fixedSchedule) NextRun() (time.Time, bool) { return f.next, f.ok }

func TestHealthz(t *testing.T) {
	next := time.Date(2026, 5, 11, 6, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		schedule Schedule
		want     string
	}{
		{name: "no scheduler"},
		{name: "not started", schedule: fixedSchedule{}},
		{name: "scheduled", schedule: fixedSchedule{next: next, ok: true}, want: "2026-05-11T06:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			if tt.schedule != nil {
				srv.SetSchedule(tt.schedule)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var health struct {
				Status     string `json:"status"`
				NextReport string `json:"next_report"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
				t.Fatalf("decode: %v (%s)", err, rec.Body.String())
			}
			if health.Status != "ok" {
				t.Errorf("status = %q, want ok", health.Status)
			}
			if health.NextReport != tt.want {
				t.Errorf("next_report = %q, want %q", health.NextReport, tt.want)
			}
		})
	}
}

func TestListTools(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	var list []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 7 {
		t.Errorf("len(tools) = %d, want 7", len(list))
	}
}

func TestHTTPErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	tests := []struct {
		name   string
		tool   string
		args   map[string]interface{}
		status int
	}{
		{"unknown tool", "calculate_carbs", nil, http.StatusNotFound},
		{"empty meal", "log_meal", map[string]interface{}{}, http.StatusBadRequest},
		{"unnamed food", "log_meal", map[string]interface{}{"foods": []interface{}{map[string]interface{}{"name": " "}}}, http.StatusBadRequest},
		{"bad timestamp", "log_meal", map[string]interface{}{"description": "x", "timestamp": "yesterday"}, http.StatusBadRequest},
		{"stool out of range", "log_symptom", map[string]interface{}{"stool_type": 8}, http.StatusBadRequest},
		{"pain out of range", "log_symptom", map[string]interface{}{"stool_type": 4, "pain_level": 5}, http.StatusBadRequest},
		{"unknown sample type", "log_wearable_sample", map[string]interface{}{"type": "heart_rate", "start": "2026-05-04T00:00:00Z", "end": "2026-05-04T01:00:00Z"}, http.StatusBadRequest},
		{"inverted sample", "log_wearable_sample", map[string]interface{}{"type": "sleep", "start": "2026-05-04T08:00:00Z", "end": "2026-05-04T01:00:00Z"}, http.StatusBadRequest},
		{"bad date", "get_meals", map[string]interface{}{"start_date": "05/04/2026"}, http.StatusBadRequest},
		{"inverted window", "generate_insights", map[string]interface{}{"start_date": "2026-05-10", "end_date": "2026-05-04"}, http.StatusBadRequest},
		{"no report yet", "get_latest_insights", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, srv, tt.tool, tt.args)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%s)", status, tt.status, body)
			}
		})
	}
}

func TestLogAndListMeals(t *testing.T) {
	srv, _ := newTestServer(t)

	status, text := call(t, srv, "log_meal", map[string]interface{}{
		"description": "breakfast",
		"timestamp":   "2026-05-04T08:00:00Z",
		"foods": []interface{}{
			map[string]interface{}{"name": "Oatmeal", "ingredients": []string{"oats", "milk"}, "nutrients": map[string]interface{}{"fiber": 4}},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("log_meal status = %d (%s)", status, text)
	}
	var meal models.Meal
	if err := json.Unmarshal([]byte(text), &meal); err != nil {
		t.Fatalf("decode meal: %v", err)
	}
	if meal.ID == "" || meal.Source != "manual" || len(meal.Foods) != 1 {
		t.Errorf("meal = %+v", meal)
	}

	status, text = call(t, srv, "get_meals", map[string]interface{}{"start_date": "2026-05-04", "end_date": "2026-05-04"})
	if status != http.StatusOK {
		t.Fatalf("get_meals status = %d (%s)", status, text)
	}
	var meals []models.Meal
	if err := json.Unmarshal([]byte(text), &meals); err != nil {
		t.Fatalf("decode meals: %v", err)
	}
	if len(meals) != 1 || meals[0].Foods[0].Nutrients.Fiber != 4 {
		t.Errorf("meals = %+v", meals)
	}

	_, text = call(t, srv, "get_meals", map[string]interface{}{"start_date": "2026-05-05"})
	if strings.TrimSpace(text) != "[]" {
		t.Errorf("get_meals after the meal = %s, want []", text)
	}
}

func TestLogSymptomAndSample(t *testing.T) {
	srv, store := newTestServer(t)

	status, text := call(t, srv, "log_symptom", map[string]interface{}{
		"stool_type": 6, "pain_level": 2, "timestamp": "2026-05-04T11:00:00Z", "tags": []string{"cramps"},
	})
	if status != http.StatusOK {
		t.Fatalf("log_symptom status = %d (%s)", status, text)
	}

	status, text = call(t, srv, "log_wearable_sample", map[string]interface{}{
		"type": "steps", "start": "2026-05-04T09:00:00Z", "end": "2026-05-04T10:00:00Z", "value": 1200,
	})
	if status != http.StatusOK {
		t.Fatalf("log_wearable_sample status = %d (%s)", status, text)
	}

	syms, err := store.GetSymptoms(context.Background(), models.TimeWindow{}, 0)
	if err != nil || len(syms) != 1 || syms[0].Tags[0] != "cramps" {
		t.Fatalf("symptoms = %+v, err = %v", syms, err)
	}
	samples, err := store.GetWearableSamples(context.Background(), models.TimeWindow{})
	if err != nil || len(samples) != 1 || samples[0].Value != 1200 {
		t.Fatalf("samples = %+v, err = %v", samples, err)
	}
}

func TestGenerateAndFetchInsights(t *testing.T) {
	srv, _ := newTestServer(t)

	for day := 0; day < 5; day++ {
		ts := monday.AddDate(0, 0, day).Add(8 * time.Hour)
		call(t, srv, "log_meal", map[string]interface{}{
			"timestamp": ts.Format(time.RFC3339),
			"foods":     []interface{}{map[string]interface{}{"name": "Ice cream"}},
		})
		for hour := 3; hour < 7; hour++ {
			call(t, srv, "log_symptom", map[string]interface{}{
				"stool_type": 7, "timestamp": ts.Add(time.Duration(hour) * time.Hour).Format(time.RFC3339),
			})
		}
	}

	status, text := call(t, srv, "generate_insights", map[string]interface{}{
		"start_date": "2026-05-04", "end_date": "2026-05-10",
	})
	if status != http.StatusOK {
		t.Fatalf("generate_insights status = %d (%s)", status, text)
	}
	var generated models.InsightReport
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if generated.Trigger != report.TriggerManual || len(generated.Insights) == 0 {
		t.Fatalf("report = %+v", generated)
	}
	if generated.Insights[0].DateRange != "May 4 - May 10, 2026" {
		t.Errorf("DateRange = %q", generated.Insights[0].DateRange)
	}

	status, text = call(t, srv, "get_latest_insights", nil)
	if status != http.StatusOK {
		t.Fatalf("get_latest_insights status = %d (%s)", status, text)
	}
	var latest models.InsightReport
	if err := json.Unmarshal([]byte(text), &latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.ID != generated.ID {
		t.Errorf("latest.ID = %s, want %s", latest.ID, generated.ID)
	}
}

func TestGenerateInsightsWithoutSave(t *testing.T) {
	srv, _ := newTestServer(t)

	status, text := call(t, srv, "generate_insights", map[string]interface{}{"save": false})
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, text)
	}
	var rep models.InsightReport
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Insights == nil || len(rep.Insights) != 0 {
		t.Errorf("Insights = %#v, want empty list", rep.Insights)
	}
	if got := rep.Window.End.Sub(rep.Window.Start); got != 7*24*time.Hour {
		t.Errorf("window length = %v, want default 7 days", got)
	}

	if status, _ := call(t, srv, "get_latest_insights", nil); status != http.StatusNotFound {
		t.Errorf("get_latest_insights status = %d, want 404", status)
	}
}

func TestStdioHandler(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"stool_type": 4, "timestamp": "2026-05-04T07:00:00Z"}
	result, err := srv.stdioHandler("log_symptom")(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	syms, err := store.GetSymptoms(ctx, models.TimeWindow{}, 0)
	if err != nil || len(syms) != 1 || syms[0].StoolType != 4 {
		t.Fatalf("symptoms = %+v, err = %v", syms, err)
	}

	bad := mcp.CallToolRequest{}
	bad.Params.Arguments = map[string]any{"stool_type": 0}
	result, err = srv.stdioHandler("log_symptom")(ctx, bad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for stool_type 0")
	}
}
