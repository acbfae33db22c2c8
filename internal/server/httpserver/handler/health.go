// Package handler provides HTTP request handlers for Stallgate.
package handler

import (
	"net/http"
	"time"

	"github.com/openstall/stallgate/internal/infra/buildinfo"
)

// Health handles GET /health.
func (h *Handler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": buildinfo.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Ready handles GET /ready.
func (h *Handler) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
