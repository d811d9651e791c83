package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts bet routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandlePlace)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Put("/result", h.HandleUpdateResult)
			r.Delete("/", h.HandleDelete)
		})
	})
}
