package server

import (
	"log/slog"
	"net/http"

	"items-finder/internal/handlers"
	"items-finder/internal/middleware"
	"items-finder/internal/services"
)

type Server struct {
	workspace    *services.Workspace
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

// NewServer wires every route to the shared workspace. Upload routes reject
// bodies larger than maxUploadBytes.
func NewServer(workspace *services.Workspace, logger *slog.Logger, maxUploadBytes int64) *Server {
	s := &Server{
		workspace:    workspace,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(workspace, logger),
		sseHandlers:  handlers.NewSSEHandlers(workspace, logger),
		pageHandlers: handlers.NewPageHandlers(workspace, logger),
	}
	s.setupRoutes(middleware.BodyLimit(maxUploadBytes))
	return s
}

func (s *Server) setupRoutes(uploadLimit middleware.Middleware) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.Handle("POST /upload", uploadLimit(http.HandlerFunc(s.pageHandlers.HandleUpload)))
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.Handle("POST /api/upload", uploadLimit(http.HandlerFunc(s.apiHandlers.HandleUpload)))
	s.mux.HandleFunc("GET /api/table", s.apiHandlers.HandleTable)
	s.mux.HandleFunc("GET /api/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/items", s.apiHandlers.HandleItems)
	s.mux.HandleFunc("PUT /api/annotations", s.apiHandlers.HandleAnnotate)
	s.mux.HandleFunc("GET /api/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/items", s.sseHandlers.HandleItems)
	s.mux.HandleFunc("POST /sse/annotate", s.sseHandlers.HandleAnnotate)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
