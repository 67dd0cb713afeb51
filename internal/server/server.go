// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"mcp-gut-check/internal/config"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/report"
	"mcp-gut-check/internal/storage"
)

// Version is reported by the stdio transport and the CLI.
var Version = "1.0.0"

var (
	errInvalidParams = errors.New("invalid parameters")
	errUnknownTool   = errors.New("unknown tool")
)

// Store is the diary persistence the tools read and write.
type Store interface {
	report.Store
	SaveMeal(ctx context.Context, meal *models.Meal) error
	SaveSymptom(ctx context.Context, symptom *models.Symptom) error
	SaveWearableSample(ctx context.Context, sample *models.WearableSample) error
	LatestReport(ctx context.Context) (*models.InsightReport, error)
}

// Schedule reports the next automatic report run.
type Schedule interface {
	NextRun() (time.Time, bool)
}

type GutCheckServer struct {
	storage    Store
	reports    *report.Generator
	config     *config.Config
	tools      map[string]tool
	router     chi.Router
	httpServer *http.Server
	mcp        *mcpserver.MCPServer
	schedule   Schedule
	now        func() time.Time
}

func NewGutCheckServer(cfg *config.Config, store Store, reports *report.Generator) *GutCheckServer {
	s := &GutCheckServer{
		storage: store,
		reports: reports,
		config:  cfg,
		tools:   make(map[string]tool),
		now:     time.Now,
	}

	s.mcp = mcpserver.NewMCPServer(
		"gut-check",
		Version,
		mcpserver.WithToolCapabilities(false),
	)

	for _, t := range s.toolset() {
		s.tools[t.name] = t
		s.registerStdioTool(t)
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.router,
	}

	return s
}

func (s *GutCheckServer) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if s.config.Server.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/tools", s.handleListTools)
	r.Post("/", s.handleHTTP)

	return r
}

// SetSchedule attaches the report scheduler so /healthz can report its next
// run. Call it before Start.
func (s *GutCheckServer) SetSchedule(sch Schedule) {
	s.schedule = sch
}

func (s *GutCheckServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string `json:"status"`
		NextReport string `json:"next_report,omitempty"`
	}{Status: "ok"}
	if s.schedule != nil {
		if next, ok := s.schedule.NextRun(); ok {
			health.NextReport = next.Format(time.RFC3339)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// Handler exposes the HTTP router, mainly for tests.
func (s *GutCheckServer) Handler() http.Handler {
	return s.router
}

func (s *GutCheckServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	type toolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var list []toolInfo
	for _, t := range s.toolset() {
		list = append(list, toolInfo{Name: t.name, Description: t.description})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		log.Printf("[server] failed to encode tool list: %v", err)
	}
}

func (s *GutCheckServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	payload, err := s.callTool(r.Context(), &request)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	result, err := s.createJSONResponse(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}

// callTool routes a request to its tool handler.
func (s *GutCheckServer) callTool(ctx context.Context, req *protocol.CallToolRequest) (interface{}, error) {
	t, ok := s.tools[req.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTool, req.Name)
	}
	payload, err := t.handler(ctx, req)
	if err != nil {
		log.Printf("[server] tool %s failed: %v", req.Name, err)
		return nil, err
	}
	return payload, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, errUnknownTool), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Start serves on the configured transport until ctx is cancelled or the
// transport fails.
func (s *GutCheckServer) Start(ctx context.Context) error {
	if s.config.Server.Transport == config.TransportStdio {
		log.Printf("[server] serving %d tools on stdio", len(s.tools))
		return mcpserver.ServeStdio(s.mcp)
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	log.Printf("[server] starting gut-check server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *GutCheckServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *GutCheckServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
