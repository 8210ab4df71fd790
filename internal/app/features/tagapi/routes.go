package tagapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the tag API endpoints.
// The caller is responsible for mounting it behind session middleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateHandler)
	r.Get("/", h.ListHandler)

	r.Route("/{id}", func(sr chi.Router) {
		sr.Patch("/", h.RenameHandler)
		sr.Delete("/", h.DeleteHandler)
	})

	return r
}
