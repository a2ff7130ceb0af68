package rest

import (
	"campussafety/internal/repository"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/handler"
	"campussafety/internal/transport/rest/middleware"
	"campussafety/internal/transport/ws"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	LocationService   *service.LocationService
	AssignmentService *service.AssignmentService
	FormService       *service.FormService
	UploadService     *service.UploadService
	ReportService     *service.ReportService
	Files             repository.FileStore
	WSHub             *ws.Hub

	MaxUploadBytes int64
	CORSOrigins    []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	locationHandler := handler.NewLocationHandler(c.LocationService)
	assignmentHandler := handler.NewAssignmentHandler(c.AssignmentService)
	sessionHandler := handler.NewSessionHandler(c.FormService)
	uploadHandler := handler.NewUploadHandler(c.UploadService, c.Files, c.MaxUploadBytes)
	reportHandler := handler.NewReportHandler(c.ReportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AssignmentService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/files/{fileId}", uploadHandler.File).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/assignments/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Account routes (require account auth)
	account := v1.NewRoute().Subrouter()
	account.Use(authMW.RequireAccount)

	account.HandleFunc("/locations", locationHandler.List).Methods("GET", "OPTIONS")

	account.HandleFunc("/assignments", assignmentHandler.Create).Methods("POST", "OPTIONS")
	account.HandleFunc("/assignments", assignmentHandler.List).Methods("GET", "OPTIONS")
	account.HandleFunc("/assignments/{id}", assignmentHandler.Get).Methods("GET", "OPTIONS")
	account.HandleFunc("/assignments/{id}", assignmentHandler.Update).Methods("PUT", "OPTIONS")
	account.HandleFunc("/assignments/{id}", assignmentHandler.Delete).Methods("DELETE", "OPTIONS")

	// Session routes
	account.HandleFunc("/assignments/{id}/session", sessionHandler.Open).Methods("GET", "OPTIONS")
	account.HandleFunc("/assignments/{id}/questions", sessionHandler.Questions).Methods("GET", "OPTIONS")
	account.HandleFunc("/assignments/{id}/answers", sessionHandler.Answers).Methods("PUT", "OPTIONS")
	account.HandleFunc("/assignments/{id}/draft", sessionHandler.SaveDraft).Methods("PUT", "OPTIONS")
	account.HandleFunc("/assignments/{id}/questions/{questionId}/upload", uploadHandler.Upload).Methods("POST", "OPTIONS")
	account.HandleFunc("/assignments/{id}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")

	// Report routes
	account.HandleFunc("/assignments/{id}/report", reportHandler.Report).Methods("GET", "OPTIONS")

	return r
}

// corsMiddleware echoes the request origin when it is allowed. An empty
// list or "*" allows any origin.
func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
	if allowedMethods == "" {
		allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	}

	allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
