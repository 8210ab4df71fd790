// Package folderapi provides the folder hierarchy API endpoints.
//
// Endpoints (mounted at /api/folders):
//   - POST /api/folders/initialize - Create the caller's root folder
//   - GET  /api/folders/root - Fetch the caller's root folder
//   - POST /api/folders - Create a folder under a parent
//   - GET  /api/folders/{id} - Folder details
//   - GET  /api/folders/{id}/children - Child folder IDs
//   - GET  /api/folders/{id}/items - Item references held by the folder
//   - POST /api/folders/{id}/move - Move a folder under a new parent
//   - POST /api/folders/{id}/items - Place an item in the folder
//   - DELETE /api/folders/{id} - Delete a folder and its subtree
//   - DELETE /api/items/{item} - Remove an item from wherever it is filed
//
// All endpoints require a signed-in session. Folders belonging to other
// users are reported as not found.
package folderapi

import (
	"errors"
	"net/http"

	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler handles folder API requests.
type Handler struct {
	folders *folderstore.Manager
	logger  *zap.Logger
}

// NewHandler creates a new folderapi handler.
func NewHandler(folders *folderstore.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		folders: folders,
		logger:  logger,
	}
}

// InitHandler handles POST /api/folders/initialize.
// It creates the root folder for the signed-in user.
//
// Response (201 Created): the root folder document.
// Response (409 Conflict): the user already has a folder tree.
func (h *Handler) InitHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	root, err := h.folders.Initialize(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("folder tree initialized",
		zap.String("owner", user.ID),
		zap.String("root_id", root.ID.Hex()))

	jsonutil.Created(w, root)
}

// RootHandler handles GET /api/folders/root.
// It returns the signed-in user's root folder.
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	root, err := h.folders.Root(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.OK(w, root)
}

// CreateHandler handles POST /api/folders.
//
// Request body:
//
//	{
//	    "title": "Recipes",
//	    "parent_id": "64fa..."
//	}
//
// Response (201 Created): the new folder document.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in struct {
		Title    string `json:"title"`
		ParentID string `json:"parent_id"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Title == "" {
		jsonutil.BadRequest(w, "title is required")
		return
	}
	parentID, err := primitive.ObjectIDFromHex(in.ParentID)
	if err != nil {
		jsonutil.BadRequest(w, "invalid parent_id")
		return
	}

	f, err := h.folders.Create(r.Context(), user.ID, in.Title, parentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.Created(w, f)
}

// DetailsHandler handles GET /api/folders/{id}.
func (h *Handler) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}
	jsonutil.OK(w, f)
}

// ChildrenHandler handles GET /api/folders/{id}/children.
//
// Response (200 OK):
//
//	{
//	    "folder_id": "64fa...",
//	    "children": ["64fb...", "64fc..."]
//	}
func (h *Handler) ChildrenHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}

	children, err := h.folders.Children(r.Context(), f.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if children == nil {
		children = []primitive.ObjectID{}
	}

	jsonutil.OK(w, map[string]any{
		"folder_id": f.ID,
		"children":  children,
	})
}

// ItemsHandler handles GET /api/folders/{id}/items.
//
// Response (200 OK):
//
//	{
//	    "folder_id": "64fa...",
//	    "items": ["64fd...", "64fe..."]
//	}
func (h *Handler) ItemsHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}

	items, err := h.folders.Items(r.Context(), f.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []string{}
	}

	jsonutil.OK(w, map[string]any{
		"folder_id": f.ID,
		"items":     items,
	})
}

// MoveHandler handles POST /api/folders/{id}/move.
//
// Request body:
//
//	{
//	    "new_parent_id": "64fb..."
//	}
func (h *Handler) MoveHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}

	var in struct {
		NewParentID string `json:"new_parent_id"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	newParentID, err := primitive.ObjectIDFromHex(in.NewParentID)
	if err != nil {
		jsonutil.BadRequest(w, "invalid new_parent_id")
		return
	}

	if err := h.folders.Move(r.Context(), f.ID, newParentID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Debug("folder moved",
		zap.String("folder_id", f.ID.Hex()),
		zap.String("new_parent_id", newParentID.Hex()))

	jsonutil.NoContent(w)
}

// DeleteHandler handles DELETE /api/folders/{id}.
// The folder and its entire subtree are removed.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}

	if err := h.folders.Delete(r.Context(), f.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("folder deleted",
		zap.String("folder_id", f.ID.Hex()),
		zap.String("owner", f.Owner))

	jsonutil.NoContent(w)
}

// InsertItemHandler handles POST /api/folders/{id}/items.
// Placing an item that is already filed elsewhere moves it here.
//
// Request body:
//
//	{
//	    "item": "64fd..."
//	}
func (h *Handler) InsertItemHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := h.ownedFolder(w, r)
	if !ok {
		return
	}

	var in struct {
		Item string `json:"item"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if in.Item == "" {
		jsonutil.BadRequest(w, "item is required")
		return
	}

	if err := h.folders.InsertItem(r.Context(), in.Item, f.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.NoContent(w)
}

// DeleteItemHandler handles DELETE /api/items/{item}.
// The item is removed from whichever folder holds it.
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	item := chi.URLParam(r, "item")
	if item == "" {
		jsonutil.BadRequest(w, "item is required")
		return
	}

	// Confirm the item is filed in one of the caller's folders before
	// touching it.
	holder, err := h.folders.HolderOf(r.Context(), item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if holder == nil || holder.Owner != user.ID {
		jsonutil.NotFound(w, "item not found")
		return
	}

	if err := h.folders.DeleteItem(r.Context(), item); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.NoContent(w)
}

// ownedFolder parses {id}, loads the folder, and verifies it belongs to the
// signed-in user. Cross-owner access is reported as not found so folder IDs
// are not probeable. Writes the error response itself and returns ok=false
// when the request should not proceed.
func (h *Handler) ownedFolder(w http.ResponseWriter, r *http.Request) (*models.Folder, bool) {
	user, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return nil, false
	}

	f, err := h.folders.Details(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	if f.Owner != user.ID {
		jsonutil.NotFound(w, "folder not found")
		return nil, false
	}
	return f, true
}

// writeError maps folder store errors onto HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, folderstore.ErrFolderNotFound),
		errors.Is(err, folderstore.ErrParentNotFound),
		errors.Is(err, folderstore.ErrItemNotFound):
		jsonutil.NotFound(w, err.Error())
	case errors.Is(err, folderstore.ErrNotOwner),
		errors.Is(err, folderstore.ErrOwnerMismatch):
		jsonutil.Forbidden(w, err.Error())
	case errors.Is(err, folderstore.ErrSelfMove):
		jsonutil.BadRequest(w, err.Error())
	case errors.Is(err, folderstore.ErrCycleDetected),
		errors.Is(err, folderstore.ErrAlreadyInitialized):
		jsonutil.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("folder operation failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		jsonutil.InternalError(w, "internal error")
	}
}
