package rest

import (
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/courtvision/internal/auth"
)

//go:embed assets/index.html
var assets embed.FS

// Server represents the REST API server.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server.
func NewServer(port string, handler *Handler, gate *auth.Gate) *Server {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Public routes
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.HandleFunc("/", handler.Dashboard).Methods("GET")
	router.HandleFunc("/api/v1/login", handler.Login).Methods("POST")

	// Session-gated API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(gate))

	api.HandleFunc("/trends", handler.GetTrends).Methods("GET")
	api.HandleFunc("/trends/history", handler.GetTrendHistory).Methods("GET")
	api.HandleFunc("/trends/history/{snapshotID}", handler.GetTrendSnapshot).Methods("GET")
	api.HandleFunc("/injuries", handler.GetInjuries).Methods("GET")
	api.HandleFunc("/games/today", handler.GetTodaysGames).Methods("GET")
	api.HandleFunc("/defense", handler.GetDefense).Methods("GET")
	api.HandleFunc("/chat", handler.PostChat).Methods("POST")
	api.HandleFunc("/cache/clear", handler.ClearCache).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Dashboard serves the embedded single-page dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Dashboard asset missing", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// Start starts the REST API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
