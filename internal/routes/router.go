package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resilient-bharat/prashikshan/internal/api"
	"resilient-bharat/prashikshan/internal/config"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/middleware"
)

// RegisterRoutes assembles the router: global middleware, the health
// and metrics endpoints, the websocket upgrade, and the /api groups.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, sqlDB *sqlx.DB, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax).Middleware)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/api/health", api.HealthCheckHandler(sqlDB, upSince))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", api.WebSocketHandler(deps))

	RegisterAPIRoutes(r, deps)

	return r
}
