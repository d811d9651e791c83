package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts bankroll routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bankroll", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Post("/", h.HandleSet)
		r.Get("/summary", h.HandleSummary)
	})
}
