package studyplan

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterRoutes registers the JSON API under /api/v1
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"https://*", "http://*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))

		r.Route("/study-plans", func(r chi.Router) {
			r.Post("/", h.GenerateStudyPlan)
			r.Post("/export", h.ExportStudyPlan)
		})
	})
}
