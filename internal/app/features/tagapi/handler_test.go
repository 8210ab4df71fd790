package tagapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	notestore "github.com/dalemusser/notekeep/internal/app/store/note"
	tagstore "github.com/dalemusser/notekeep/internal/app/store/tag"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/dalemusser/notekeep/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tagstore.Store, *notestore.Store, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	tags := tagstore.New(db)
	notes := notestore.New(db)
	h := NewHandler(tags, notes, logger)
	return tags, notes, Routes(h)
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

func TestCreateHandler(t *testing.T) {
	_, _, router := newTestHandler(t)
	user := testutil.RegularUser()

	rec := doJSON(t, router, user, http.MethodPost, "/", `{"name":"work"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var tag models.Tag
	if err := json.Unmarshal(rec.Body.Bytes(), &tag); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if tag.Name != "work" {
		t.Errorf("name = %q, want %q", tag.Name, "work")
	}

	t.Run("duplicate name", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/", `{"name":"Work"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPost, "/", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("same name different owner", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, router, other, http.MethodPost, "/", `{"name":"work"}`)
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
		}
	})
}

func TestListHandler(t *testing.T) {
	tags, _, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"zebra", "apple"} {
		if _, err := tags.Create(ctx, user.ID, name); err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
	}

	rec := doJSON(t, router, user, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Tags []models.Tag `json:"tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(resp.Tags))
	}
	if resp.Tags[0].Name != "apple" || resp.Tags[1].Name != "zebra" {
		t.Errorf("tags not sorted by name: %v", resp.Tags)
	}

	t.Run("empty list is an array", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, router, other, http.MethodGet, "/", "")
		if !strings.Contains(rec.Body.String(), `"tags":[]`) {
			t.Errorf("body = %s, want empty tags array", rec.Body.String())
		}
	})
}

func TestRenameHandler(t *testing.T) {
	tags, _, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tag, err := tags.Create(ctx, user.ID, "work")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	rec := doJSON(t, router, user, http.MethodPatch, "/"+tag.ID.Hex(), `{"name":"personal"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}
	got, err := tags.GetByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != "personal" {
		t.Errorf("name = %q, want %q", got.Name, "personal")
	}

	t.Run("duplicate name", func(t *testing.T) {
		if _, err := tags.Create(ctx, user.ID, "other"); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		rec := doJSON(t, router, user, http.MethodPatch, "/"+tag.ID.Hex(), `{"name":"Other"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	t.Run("cross-owner hidden", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := doJSON(t, router, other, http.MethodPatch, "/"+tag.ID.Hex(), `{"name":"stolen"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("missing tag", func(t *testing.T) {
		rec := doJSON(t, router, user, http.MethodPatch, "/"+primitive.NewObjectID().Hex(), `{"name":"x"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestDeleteHandler(t *testing.T) {
	tags, notes, router := newTestHandler(t)
	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tag, err := tags.Create(ctx, user.ID, "work")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	n, err := notes.Create(ctx, user.ID, "Tagged note", "", []primitive.ObjectID{tag.ID})
	if err != nil {
		t.Fatalf("notes.Create() error: %v", err)
	}

	rec := doJSON(t, router, user, http.MethodDelete, "/"+tag.ID.Hex(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	// Tag is gone and detached from the note.
	if _, err := tags.GetByID(ctx, tag.ID); err == nil {
		t.Error("tag still exists after delete")
	}
	got, err := notes.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if len(got.TagIDs) != 0 {
		t.Errorf("note still carries %d tags after delete", len(got.TagIDs))
	}
}
