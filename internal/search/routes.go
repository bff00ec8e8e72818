package search

import "github.com/go-chi/chi/v5"

// MountRoutes registers the lookup page under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/", h.search)
	r.Post("/filtro", h.changeFilter)
	r.Post("/limpar", h.clear)
	r.Post("/painel", h.togglePanel)
	r.Get("/previa", h.preview)
}
