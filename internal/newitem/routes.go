package newitem

import "github.com/go-chi/chi/v5"

// MountRoutes registers the registration page under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/", h.submit)
	r.Post("/campo", h.changeField)
}
