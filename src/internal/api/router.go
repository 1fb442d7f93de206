package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
)

// NewRouter creates the HTTP router with all endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(CORS)

	r.Get("/health", h.CheckHealth)
	r.Get("/blocklist.txt", h.GetBlocklist)
	r.Get("/blocklist.txt.sig", h.GetSignature)

	r.Group(func(r chi.Router) {
		r.Use(PrivateSubnetOnly)
		r.Get("/api/v1/status", h.GetStatus)
		r.Handle("/metrics", metrics.Handler())
	})

	return r
}
