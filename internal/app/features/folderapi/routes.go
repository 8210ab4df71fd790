package folderapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the folder API endpoints.
// The caller is responsible for mounting it behind session middleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/initialize", h.InitHandler)
	r.Get("/root", h.RootHandler)
	r.Post("/", h.CreateHandler)

	r.Route("/{id}", func(sr chi.Router) {
		sr.Get("/", h.DetailsHandler)
		sr.Delete("/", h.DeleteHandler)
		sr.Get("/children", h.ChildrenHandler)
		sr.Get("/items", h.ItemsHandler)
		sr.Post("/items", h.InsertItemHandler)
		sr.Post("/move", h.MoveHandler)
	})

	return r
}

// ItemRoutes returns a router for item placement lookups that are not
// scoped to a specific folder. Mounted at /api/items.
func ItemRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Delete("/{item}", h.DeleteItemHandler)
	return r
}
