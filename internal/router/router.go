package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"playcheck/internal/handlers"
	"playcheck/internal/middleware"
)

func New(
	checkHandler *handlers.CheckHandler,
	metricsHandler http.Handler,
	limiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/check", checkHandler.Check)
	})

	return r
}
