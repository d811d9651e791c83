package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes mounts recommendation routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleIngest)

		// Generation calls the model and can outlive the default timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(120 * time.Second))
			r.Post("/generate", h.HandleGenerate)
		})
	})
}
