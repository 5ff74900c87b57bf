// Package api provides the HTTP server for the cocina gamification daemon.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/takato23/cocina/internal/app/engagement"
	"github.com/takato23/cocina/internal/app/points"
	"github.com/takato23/cocina/internal/health"
)

// Version is the API version string reported on /api/version.
const Version = "0.1.0"

// Deps bundles the services the API serves.
type Deps struct {
	Engine        *engagement.Engine
	Levels        *engagement.LevelService
	Achievements  *engagement.AchievementService
	Streaks       *engagement.StreakService
	Points        *points.Service
	Notifications *engagement.NotificationService // nil when disabled
	Health        *health.Checker
	CORSOrigins   []string
}

// Server is the cocina HTTP API server.
type Server struct {
	deps           Deps
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(deps Deps) *Server {
	return &Server{deps: deps}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware(s.deps.CORSOrigins))

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", s.handleRecordEvent)
		r.Get("/achievements", s.handleCatalog)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/level", s.handleLevel)
			r.Get("/stats", s.handleStats)
			r.Get("/achievements", s.handleAchievements)
			r.Post("/achievements/check", s.handleCheckAchievements)
			r.Get("/streaks/{activity}", s.handleStreak)
			r.Get("/points", s.handlePoints)
			r.Post("/points/spend", s.handleSpendPoints)
			r.Get("/notifications", s.handleNotifications)
			r.Get("/summary", s.handleSummary)
		})

		r.Post("/notifications/{id}/shown", s.handleNotificationShown)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the app shell. An empty list or a
// literal "*" entry allows everything; otherwise the request's Origin is
// echoed back only when it is on the list.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
			continue
		}
		allowed[o] = true
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
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
