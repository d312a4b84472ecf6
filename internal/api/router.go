package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openstrand/strandkit/internal/schemaservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *schemaservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Static schema routes must register before the wildcard CRUD routes.
	r.Post("/schemas/validate", h.ValidateSchema)
	r.Get("/schemas/pending", h.PendingSchemas)
	r.Get("/schemas/changes", h.Changes)
	r.Post("/schemas/publish", h.PublishSchema)
	r.Post("/schemas/conflict", h.ConflictSchema)

	// Schemas CRUD. Record ids may contain slashes (file-derived ids), so
	// the item routes are wildcards.
	r.Get("/schemas", h.ListSchemas)
	r.Get("/schemas/*", h.GetSchema)
	r.Put("/schemas/*", h.SaveSchema)
	r.Delete("/schemas/*", h.DeleteSchema)

	// Store portability.
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
