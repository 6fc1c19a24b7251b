// Package api provides the HTTP server for DrinkWise.
// It exposes the party log, progression profiles, badges, challenges,
// groups and notifications as a JSON REST API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drinkwise/drinkwise/internal/app/engagement"
	"github.com/drinkwise/drinkwise/internal/health"
	"github.com/drinkwise/drinkwise/internal/infra/metrics"
	"github.com/drinkwise/drinkwise/internal/infra/sqlite"
)

// Server is the DrinkWise HTTP API server.
type Server struct {
	svc            *engagement.Service
	db             *sqlite.DB
	health         *health.Checker
	metricsEnabled bool
	corsOrigins    []string
}

// NewServer creates a new API server.
func NewServer(svc *engagement.Service, db *sqlite.DB) *Server {
	return &Server{svc: svc, db: db, corsOrigins: []string{"*"}}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the periodic health checker to /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// SetCORSOrigins sets the allowed CORS origins.
func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware)
	r.Use(metricsMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if s.health == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		status := "ok"
		code := http.StatusOK
		if !s.health.IsHealthy() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": s.health.Statuses(),
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/parties", s.handleLogParty)
		r.Get("/parties", s.handleListParties)
		r.Get("/stats", s.handleStats)
		r.Get("/profile", s.handleProfile)
		r.Get("/badges", s.handleBadges)
		r.Get("/challenges", s.handleChallenges)
		r.Get("/groups", s.handleUserGroups)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/shown", s.handleNotificationsShown)
	})

	r.Route("/api/parties/{partyID}", func(r chi.Router) {
		r.Get("/", s.handleGetParty)
		r.Post("/quiz", s.handleAttachQuiz)
	})

	r.Route("/api/groups", func(r chi.Router) {
		r.Post("/", s.handleCreateGroup)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", s.handleGetGroup)
			r.Post("/members", s.handleJoinGroup)
			r.Delete("/members/{memberID}", s.handleLeaveGroup)
			r.Post("/goals", s.handleAddGoal)
			r.Delete("/goals/{goalID}", s.handleDeleteGoal)
			r.Post("/refresh", s.handleRefreshGroup)
		})
	})

	// Static catalogs
	r.Get("/api/catalog/badges", s.handleBadgeCatalog)
	r.Get("/api/catalog/challenges", s.handleChallengeCatalog)

	// Prometheus metrics endpoint
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

// corsMiddleware adds CORS headers for browser clients.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request duration per route pattern and status.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.APIRequestDuration.
			WithLabelValues(route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

func (s *Server) allowedOrigin(origin string) string {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if strings.EqualFold(o, origin) {
			return o
		}
	}
	if len(s.corsOrigins) > 0 {
		return s.corsOrigins[0]
	}
	return "*"
}
