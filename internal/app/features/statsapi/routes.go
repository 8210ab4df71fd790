// internal/app/features/statsapi/routes.go
package statsapi

import (
	"net/http"

	"github.com/dalemusser/notekeep/internal/app/system/apicors"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the service stats endpoints mounted behind
// API key authentication and permissive CORS.
func Routes(h *Handler, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Get("/stats", h.StatsHandler)

	return r
}
