package main

import (
	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadgrid/internal/infra/http/handlers"
)

// registerRoutes wires the application routes onto a chi router. Called
// twice so every endpoint answers both at the root and under /api, which
// keeps old clients that hardcoded one of the two prefixes working.
func registerRoutes(
	r chi.Router,
	authHandler *handlers.AuthHandler,
	leadHandler *handlers.LeadHandler,
	scrapeHandler *handlers.ScrapeHandler,
	healthHandler *handlers.HealthHandler,
) {
	r.Post("/auth/login", authHandler.HandleLogin)

	r.Get("/leads", leadHandler.HandleList)
	r.Post("/lead", leadHandler.HandleCreate)
	r.Patch("/lead/{id}", leadHandler.HandleUpdate)

	r.Post("/scrape", scrapeHandler.HandleScrape)
	r.Post("/scrape-link", scrapeHandler.HandleScrapeLink)

	r.Get("/health", healthHandler.Handle)
}
