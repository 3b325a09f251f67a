package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-video-bot/internal/domain/ports/repository"
)

// Server exposes the admin API: health, metrics and read-only job lookups.
type Server struct {
	jobs   repository.VideoJobRepository
	apiKey string
	log    *zerolog.Logger
}

func NewServer(jobs repository.VideoJobRepository, apiKey string, logger *zerolog.Logger) *Server {
	webLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{jobs: jobs, apiKey: apiKey, log: &webLog}
}

// Router builds the admin API routes. Health and metrics are open; the
// /api/v1 tree requires the bearer key.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/jobs/{jobID}", s.jobGetHandler)
		r.Get("/users/{userID}/jobs", s.userJobsHandler)
	})

	return r
}
