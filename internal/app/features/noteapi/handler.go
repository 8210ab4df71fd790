// Package noteapi provides the note CRUD and summarization API endpoints.
//
// Endpoints (mounted at /api/notes):
//   - POST /api/notes - Create a note (optionally filed into a folder)
//   - GET  /api/notes - List the caller's notes (optional ?tag= filter)
//   - GET  /api/notes/{id} - Note details
//   - PATCH /api/notes/{id} - Update title, body, or tags
//   - DELETE /api/notes/{id} - Delete a note and unfile it
//   - POST /api/notes/{id}/summarize - Generate and store an AI summary
//
// All endpoints require a signed-in session. Notes belonging to other users
// are reported as not found.
package noteapi

import (
	"errors"
	"net/http"
	"strconv"

	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	notestore "github.com/dalemusser/notekeep/internal/app/store/note"
	"github.com/dalemusser/notekeep/internal/app/store/storeutil"
	tagstore "github.com/dalemusser/notekeep/internal/app/store/tag"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"github.com/dalemusser/notekeep/internal/app/system/summarize"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles note API requests.
type Handler struct {
	notes      *notestore.Store
	tags       *tagstore.Store
	folders    *folderstore.Manager
	summarizer summarize.Provider // nil when summarization is not configured
	logger     *zap.Logger
}

// NewHandler creates a new noteapi handler. summarizer may be nil, in which
// case the summarize endpoint responds 503.
func NewHandler(notes *notestore.Store, tags *tagstore.Store, folders *folderstore.Manager, summarizer summarize.Provider, logger *zap.Logger) *Handler {
	return &Handler{
		notes:      notes,
		tags:       tags,
		folders:    folders,
		summarizer: summarizer,
		logger:     logger,
	}
}

// CreateHandler handles POST /api/notes.
//
// Request body:
//
//	{
//	    "title": "Meeting notes",
//	    "body": "<p>...</p>",
//	    "tag_ids": ["64fa..."],
//	    "folder_id": "64fb..."
//	}
//
// folder_id is optional; when omitted the note is filed into the caller's
// root folder if one exists.
//
// Response (201 Created): the new note document.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in struct {
		Title    string   `json:"title"`
		Body     string   `json:"body"`
		TagIDs   []string `json:"tag_ids"`
		FolderID string   `json:"folder_id"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Title == "" {
		jsonutil.BadRequest(w, "title is required")
		return
	}

	tagIDs, ok := h.resolveTagIDs(w, r, user.ID, in.TagIDs)
	if !ok {
		return
	}

	// Resolve destination folder before creating the note so a bad
	// folder_id fails the whole request.
	var dest *models.Folder
	if in.FolderID != "" {
		folderID, err := primitive.ObjectIDFromHex(in.FolderID)
		if err != nil {
			jsonutil.BadRequest(w, "invalid folder_id")
			return
		}
		f, err := h.folders.Details(r.Context(), folderID)
		if err != nil || f.Owner != user.ID {
			jsonutil.NotFound(w, "folder not found")
			return
		}
		dest = f
	} else {
		// Best effort: file into the root when the tree exists.
		if root, err := h.folders.Root(r.Context(), user.ID); err == nil {
			dest = root
		}
	}

	n, err := h.notes.Create(r.Context(), user.ID, in.Title, in.Body, tagIDs)
	if err != nil {
		h.logger.Error("failed to create note", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	if dest != nil {
		if err := h.folders.InsertItem(r.Context(), n.ID.Hex(), dest.ID); err != nil {
			h.logger.Error("failed to file note into folder",
				zap.String("note_id", n.ID.Hex()),
				zap.String("folder_id", dest.ID.Hex()),
				zap.Error(err))
			jsonutil.InternalError(w, "internal error")
			return
		}
	}

	h.logger.Debug("note created",
		zap.String("note_id", n.ID.Hex()),
		zap.String("owner", user.ID))

	jsonutil.Created(w, n)
}

// ListHandler handles GET /api/notes.
// Supports ?tag=<tag-id> filtering and ?page=/&limit= pagination.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	if tagParam := r.URL.Query().Get("tag"); tagParam != "" {
		tagID, err := primitive.ObjectIDFromHex(tagParam)
		if err != nil {
			jsonutil.BadRequest(w, "invalid tag id")
			return
		}
		notes, err := h.notes.ListByTag(r.Context(), user.ID, tagID)
		if err != nil {
			h.logger.Error("failed to list notes by tag", zap.Error(err))
			jsonutil.InternalError(w, "internal error")
			return
		}
		jsonutil.OK(w, map[string]any{"notes": emptyIfNil(notes)})
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)

	notes, err := h.notes.ListByOwner(r.Context(), user.ID, storeutil.Paginate(limit, page))
	if err != nil {
		h.logger.Error("failed to list notes", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, map[string]any{"notes": emptyIfNil(notes)})
}

// DetailsHandler handles GET /api/notes/{id}.
// The response includes the folder currently holding the note, if any.
func (h *Handler) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	resp := map[string]any{"note": n}
	if holder, err := h.folders.HolderOf(r.Context(), n.ID.Hex()); err == nil && holder != nil {
		resp["folder_id"] = holder.ID
	}
	jsonutil.OK(w, resp)
}

// UpdateHandler handles PATCH /api/notes/{id}.
// Only the fields present in the request body are changed. Updating the
// body clears any stored summary.
//
// Request body:
//
//	{
//	    "title": "New title",
//	    "body": "<p>...</p>",
//	    "tag_ids": ["64fa..."]
//	}
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	n, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	var in struct {
		Title  *string   `json:"title"`
		Body   *string   `json:"body"`
		TagIDs *[]string `json:"tag_ids"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Title != nil && *in.Title == "" {
		jsonutil.BadRequest(w, "title cannot be empty")
		return
	}

	upd := notestore.UpdateInput{
		Title: in.Title,
		Body:  in.Body,
	}
	if in.TagIDs != nil {
		tagIDs, ok := h.resolveTagIDs(w, r, user.ID, *in.TagIDs)
		if !ok {
			return
		}
		upd.TagIDs = tagIDs
	}

	if err := h.notes.UpdateFromInput(r.Context(), n.ID, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "note not found")
			return
		}
		h.logger.Error("failed to update note", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.NoContent(w)
}

// DeleteHandler handles DELETE /api/notes/{id}.
// The note is unfiled from its folder and removed.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	// Unfile first; a note that was never filed is fine.
	if err := h.folders.DeleteItem(r.Context(), n.ID.Hex()); err != nil &&
		!errors.Is(err, folderstore.ErrItemNotFound) {
		h.logger.Error("failed to unfile note", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	if _, err := h.notes.Delete(r.Context(), n.ID); err != nil {
		h.logger.Error("failed to delete note", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	h.logger.Info("note deleted",
		zap.String("note_id", n.ID.Hex()),
		zap.String("owner", n.Owner))

	jsonutil.NoContent(w)
}

// SummarizeHandler handles POST /api/notes/{id}/summarize.
// It sends the note content to the configured AI provider, stores the
// returned summary on the note, and echoes it back.
//
// Response (200 OK):
//
//	{
//	    "summary": "..."
//	}
func (h *Handler) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := h.ownedNote(w, r)
	if !ok {
		return
	}

	if h.summarizer == nil {
		jsonutil.Error(w, http.StatusServiceUnavailable, summarize.ErrNotConfigured.Error())
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), n.Title, n.BodyHTML)
	if err != nil {
		h.logger.Error("summarization failed",
			zap.String("note_id", n.ID.Hex()),
			zap.String("provider", h.summarizer.Name()),
			zap.Error(err))
		jsonutil.Error(w, http.StatusBadGateway, "summarization failed")
		return
	}

	if err := h.notes.SetSummary(r.Context(), n.ID, summary); err != nil {
		h.logger.Error("failed to store summary", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	jsonutil.OK(w, map[string]string{"summary": summary})
}

// ownedNote parses {id}, loads the note, and verifies it belongs to the
// signed-in user. Cross-owner access is reported as not found.
func (h *Handler) ownedNote(w http.ResponseWriter, r *http.Request) (*models.Note, bool) {
	user, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid note id")
		return nil, false
	}

	n, err := h.notes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "note not found")
			return nil, false
		}
		h.logger.Error("failed to load note", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return nil, false
	}
	if n.Owner != user.ID {
		jsonutil.NotFound(w, "note not found")
		return nil, false
	}
	return n, true
}

// resolveTagIDs parses tag id strings and verifies each tag belongs to the
// caller. Writes the error response itself and returns ok=false on failure.
func (h *Handler) resolveTagIDs(w http.ResponseWriter, r *http.Request, owner string, raw []string) ([]primitive.ObjectID, bool) {
	tagIDs := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			jsonutil.BadRequest(w, "invalid tag id: "+s)
			return nil, false
		}
		t, err := h.tags.GetByID(r.Context(), id)
		if err != nil || t.Owner != owner {
			jsonutil.BadRequest(w, "unknown tag: "+s)
			return nil, false
		}
		tagIDs = append(tagIDs, id)
	}
	return tagIDs, true
}

func emptyIfNil(notes []models.Note) []models.Note {
	if notes == nil {
		return []models.Note{}
	}
	return notes
}
