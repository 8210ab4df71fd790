package folderapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/dalemusser/notekeep/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *folderstore.Manager, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	folders := folderstore.NewManager(db, zap.NewNop())
	h := NewHandler(folders, zap.NewNop())
	return h, folders, Routes(h)
}

func doJSON(t *testing.T, router http.Handler, user testutil.TestUser, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestInitHandler(t *testing.T) {
	_, _, router := newTestHandler(t)
	user := testutil.RegularUser()

	rec := doJSON(t, router, user, http.MethodPost, "/initialize", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var root models.Folder
	if err := json.Unmarshal(rec.Body.Bytes(), &root); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if root.Owner != user.ID {
		t.Errorf("owner = %q, want %q", root.Owner, user.ID)
	}

	// Second initialize conflicts.
	rec = doJSON(t, router, user, http.MethodPost, "/initialize", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("second initialize status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRootHandler(t *testing.T) {
	_, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := doJSON(t, router, user, http.MethodGet, "/root", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status before initialize = %d, want %d", rec.Code, http.StatusNotFound)
	}

	root, err := folders.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	rec = doJSON(t, router, user, http.MethodGet, "/root", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got models.Folder
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != root.ID {
		t.Errorf("root id = %s, want %s", got.ID.Hex(), root.ID.Hex())
	}
}

func TestCreateHandler(t *testing.T) {
	_, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, err := folders.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	rec := doJSON(t, router, user, http.MethodPost, "/",
		`{"title":"Projects","parent_id":"`+root.ID.Hex()+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created models.Folder
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Title != "Projects" {
		t.Errorf("title = %q, want %q", created.Title, "Projects")
	}

	t.Run("missing title", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/",
			`{"parent_id":"`+root.ID.Hex()+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/",
			`{"title":"Orphan","parent_id":"`+primitive.NewObjectID().Hex()+`"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("foreign parent", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, router, other, http.MethodPost, "/",
			`{"title":"Sneaky","parent_id":"`+root.ID.Hex()+`"}`)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})
}

func TestMoveHandler(t *testing.T) {
	_, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, _ := folders.Initialize(ctx, user.ID)
	a, _ := folders.Create(ctx, user.ID, "A", root.ID)
	b, _ := folders.Create(ctx, user.ID, "B", root.ID)
	aChild, _ := folders.Create(ctx, user.ID, "A child", a.ID)

	rec := doJSON(t, router, user, http.MethodPost, "/"+a.ID.Hex()+"/move",
		`{"new_parent_id":"`+b.ID.Hex()+`"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	t.Run("self move", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/"+a.ID.Hex()+"/move",
			`{"new_parent_id":"`+a.ID.Hex()+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/"+a.ID.Hex()+"/move",
			`{"new_parent_id":"`+aChild.ID.Hex()+`"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("foreign folder hidden", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, router, other, http.MethodPost, "/"+a.ID.Hex()+"/move",
			`{"new_parent_id":"`+b.ID.Hex()+`"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestChildrenAndItemsHandlers(t *testing.T) {
	_, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, _ := folders.Initialize(ctx, user.ID)
	a, _ := folders.Create(ctx, user.ID, "A", root.ID)
	if err := folders.InsertItem(ctx, "note-1", root.ID); err != nil {
		t.Fatalf("InsertItem() error: %v", err)
	}

	rec := doJSON(t, router, user, http.MethodGet, "/"+root.ID.Hex()+"/children", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("children status = %d, want %d", rec.Code, http.StatusOK)
	}
	var childrenResp struct {
		Children []string `json:"children"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &childrenResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(childrenResp.Children) != 1 || childrenResp.Children[0] != a.ID.Hex() {
		t.Errorf("children = %v, want [%s]", childrenResp.Children, a.ID.Hex())
	}

	rec = doJSON(t, router, user, http.MethodGet, "/"+root.ID.Hex()+"/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("items status = %d, want %d", rec.Code, http.StatusOK)
	}
	var itemsResp struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &itemsResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(itemsResp.Items) != 1 || itemsResp.Items[0] != "note-1" {
		t.Errorf("items = %v, want [note-1]", itemsResp.Items)
	}

	// Empty arrays come back as [], not null.
	rec = doJSON(t, router, user, http.MethodGet, "/"+a.ID.Hex()+"/items", "")
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("body = %s, want empty items array", rec.Body.String())
	}
}

func TestDeleteHandler(t *testing.T) {
	_, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, _ := folders.Initialize(ctx, user.ID)
	a, _ := folders.Create(ctx, user.ID, "A", root.ID)

	rec := doJSON(t, router, user, http.MethodDelete, "/"+a.ID.Hex(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doJSON(t, router, user, http.MethodGet, "/"+a.ID.Hex(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestItemHandlers(t *testing.T) {
	h, folders, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, _ := folders.Initialize(ctx, user.ID)

	rec := doJSON(t, router, user, http.MethodPost, "/"+root.ID.Hex()+"/items",
		`{"item":"note-1"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("insert status = %d, want %d (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	itemRouter := ItemRoutes(h)

	t.Run("foreign item hidden", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, itemRouter, other, http.MethodDelete, "/note-1", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	rec = doJSON(t, itemRouter, user, http.MethodDelete, "/note-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	// The item is gone now.
	rec = doJSON(t, itemRouter, user, http.MethodDelete, "/note-1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDetailsHandler_InvalidID(t *testing.T) {
	_, _, router := newTestHandler(t)
	user := testutil.RegularUser()

	rec := doJSON(t, router, user, http.MethodGet, "/not-an-id", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
