// Package main provides the API router setup.
package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rudud-ai/knowledge-engine/cmd/knowledge-api/handlers"
	"github.com/rudud-ai/knowledge-engine/cmd/knowledge-api/middleware"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/pkg/engine"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, eng *engine.Engine, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(requestTimeout))

	retrievalHandler := handlers.NewRetrievalHandler(logger, eng)
	resolveHandler := handlers.NewResolveHandler(logger, eng)
	adminHandler := handlers.NewAdminHandler(logger, eng)

	r.Get("/health", adminHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant())

		r.Post("/retrieve", retrievalHandler.Retrieve)
		r.Post("/resolve-product", resolveHandler.Resolve)
		r.Post("/tenants/{tenantID}/reload", adminHandler.ReloadTenant)
	})

	return r
}
