// Package api exposes document conversion over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/prettynotes/internal/config"
	"github.com/dgallion1/prettynotes/internal/llm"
	"github.com/dgallion1/prettynotes/internal/pipeline"
)

// StatsSource reports recent LLM call statistics.
type StatsSource interface {
	Snapshot() llm.StatsSnapshot
}

// Server is the HTTP API server for prettynotes.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        StatsSource
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(orch *pipeline.Orchestrator, stats StatsSource, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Get("/api/convert/{jobID}/status", s.handleConvertStatus)
		r.Get("/api/convert/{jobID}/download", s.handleDownload)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
