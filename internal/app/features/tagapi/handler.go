// Package tagapi provides the tag management API endpoints.
//
// Endpoints (mounted at /api/tags):
//   - POST /api/tags - Create a tag
//   - GET  /api/tags - List the caller's tags
//   - PATCH /api/tags/{id} - Rename a tag
//   - DELETE /api/tags/{id} - Delete a tag and detach it from notes
//
// Tag names are unique per user, case-insensitively.
package tagapi

import (
	"errors"
	"net/http"

	notestore "github.com/dalemusser/notekeep/internal/app/store/note"
	tagstore "github.com/dalemusser/notekeep/internal/app/store/tag"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles tag API requests.
type Handler struct {
	tags   *tagstore.Store
	notes  *notestore.Store
	logger *zap.Logger
}

// NewHandler creates a new tagapi handler.
func NewHandler(tags *tagstore.Store, notes *notestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		tags:   tags,
		notes:  notes,
		logger: logger,
	}
}

// CreateHandler handles POST /api/tags.
//
// Request body:
//
//	{
//	    "name": "work"
//	}
//
// Response (201 Created): the new tag document.
// Response (409 Conflict): the caller already has a tag with this name.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in struct {
		Name string `json:"name"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Name == "" {
		jsonutil.BadRequest(w, "name is required")
		return
	}

	t, err := h.tags.Create(r.Context(), user.ID, in.Name)
	if err != nil {
		if errors.Is(err, tagstore.ErrDuplicateName) {
			jsonutil.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to create tag", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.Created(w, t)
}

// ListHandler handles GET /api/tags.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	tags, err := h.tags.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list tags", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	jsonutil.OK(w, map[string]any{"tags": tags})
}

// RenameHandler handles PATCH /api/tags/{id}.
//
// Request body:
//
//	{
//	    "name": "personal"
//	}
func (h *Handler) RenameHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := h.ownedTag(w, r)
	if !ok {
		return
	}

	var in struct {
		Name string `json:"name"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Name == "" {
		jsonutil.BadRequest(w, "name is required")
		return
	}

	if err := h.tags.Rename(r.Context(), t.ID, in.Name); err != nil {
		switch {
		case errors.Is(err, tagstore.ErrDuplicateName):
			jsonutil.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, mongo.ErrNoDocuments):
			jsonutil.NotFound(w, "tag not found")
		default:
			h.logger.Error("failed to rename tag", zap.Error(err))
			jsonutil.InternalError(w, "internal error")
		}
		return
	}
	jsonutil.NoContent(w)
}

// DeleteHandler handles DELETE /api/tags/{id}.
// The tag is removed from every note that carries it.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	t, ok := h.ownedTag(w, r)
	if !ok {
		return
	}

	if err := h.notes.RemoveTagFromAll(r.Context(), user.ID, t.ID); err != nil {
		h.logger.Error("failed to detach tag from notes", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	if _, err := h.tags.Delete(r.Context(), t.ID); err != nil {
		h.logger.Error("failed to delete tag", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	h.logger.Info("tag deleted",
		zap.String("tag_id", t.ID.Hex()),
		zap.String("owner", t.Owner))

	jsonutil.NoContent(w)
}

// ownedTag parses {id}, loads the tag, and verifies it belongs to the
// signed-in user. Cross-owner access is reported as not found.
func (h *Handler) ownedTag(w http.ResponseWriter, r *http.Request) (*models.Tag, bool) {
	user, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid tag id")
		return nil, false
	}

	t, err := h.tags.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "tag not found")
			return nil, false
		}
		h.logger.Error("failed to load tag", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return nil, false
	}
	if t.Owner != user.ID {
		jsonutil.NotFound(w, "tag not found")
		return nil, false
	}
	return t, true
}
