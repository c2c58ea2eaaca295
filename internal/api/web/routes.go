package web

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers the browser UI
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
	r.Post("/generate", h.Generate)
	r.Get("/export", h.Export)
}
