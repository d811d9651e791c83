package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts game routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleIngest)
		r.Post("/refresh", h.HandleRefresh)
	})
}
