package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fairplay/app"
	"fairplay/ports"
)

// Server is the HTTP boundary of the assessment pipeline.
type Server struct {
	router  *chi.Mux
	service *app.AssessmentService
	repo    ports.AssessmentRepository
}

// NewServer creates a server wired to the assessment service and store
func NewServer(service *app.AssessmentService, repo ports.AssessmentRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		repo:    repo,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/assessments", func(r chi.Router) {
		r.Post("/", s.handleCreateAssessment)
		r.Get("/{gameID}/{color}", s.handleGetAssessment)
		r.Get("/player/{playerID}", s.handleListByPlayer)
	})
}

// Handler returns the http.Handler for this server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
