package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkovac/journal-insights/internal/config"
	"github.com/mkovac/journal-insights/internal/insight"
	"github.com/mkovac/journal-insights/internal/store"
)

func NewRouter(cfg *config.Config, s *store.Store, orch *insight.Orchestrator, health HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)

	handlers := NewHandlers(s, orch, health)

	// Public endpoints
	r.Get("/health", handlers.Health)

	// API v1 routes (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg))
		r.Use(JSONContentType)

		r.Post("/entries", handlers.CreateEntry)
		r.Get("/entries", handlers.ListEntries)
		r.Get("/insights/{type}", handlers.GetInsight)
		r.Post("/insights/refresh", handlers.RefreshAll)
		r.Post("/insights/{type}/refresh", handlers.RefreshInsight)
	})

	return r
}
