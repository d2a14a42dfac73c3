// Package server exposes the recovery, adaptation and history subsystems
// over a JSON REST API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/neonfit/internal/history"
	"github.com/claude/neonfit/internal/program"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	setLog   *history.Log
	stats    *history.Stats
	progress *history.Progress
	plan     *program.Plan
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. The plan may be nil
// when no program file is configured; plan-backed routes then return 404.
func New(setLog *history.Log, plan *program.Plan, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		setLog:   setLog,
		stats:    history.NewStats(setLog),
		progress: history.NewProgress(setLog),
		plan:     plan,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler subtree, used for the MCP endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints
	s.router.Post("/api/v1/recovery/score", s.handleRecoveryScore)
	s.router.Get("/api/v1/recovery/recommendation", s.handleRecommendation)
	s.router.Post("/api/v1/workout/adapt", s.handleAdaptWorkout)
	s.router.Get("/api/v1/workout", s.handlePlannedWorkout)
	s.router.Get("/api/v1/program", s.handleProgram)

	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/history/comparison", s.handleComparison)
	s.router.Get("/api/v1/history/export", s.handleExport)

	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/stats/records", s.handleRecords)
	s.router.Get("/api/v1/stats/weekly", s.handleWeekly)
	s.router.Get("/api/v1/progress", s.handleProgress)
	s.router.Get("/api/v1/progress/chart", s.handleChartData)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/history/sets", s.handleLogSet)
		r.Post("/api/v1/history/import", s.handleImport)
		r.Post("/api/v1/history/clear", s.handleClear)
	})
}
