// Package statsapi exposes service-level counters for machine clients.
//
// GET /api/service/stats returns document counts per collection. The
// endpoint authenticates with the configured API key (Bearer token), not
// a session, so monitoring systems can poll it without cookies.
package statsapi

import (
	"net/http"

	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles service stats requests.
type Handler struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewHandler creates a new statsapi handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// StatsHandler handles GET /api/service/stats.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int64)
	for _, name := range []string{"users", "folders", "notes", "tags"} {
		n, err := h.db.Collection(name).CountDocuments(r.Context(), bson.M{})
		if err != nil {
			h.logger.Error("failed to count collection",
				zap.String("collection", name),
				zap.Error(err))
			jsonutil.InternalError(w, "failed to gather stats")
			return
		}
		counts[name] = n
	}

	jsonutil.OK(w, map[string]any{"counts": counts})
}
