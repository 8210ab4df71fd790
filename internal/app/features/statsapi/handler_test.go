package statsapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	notestore "github.com/dalemusser/notekeep/internal/app/store/note"
	tagstore "github.com/dalemusser/notekeep/internal/app/store/tag"
	"github.com/dalemusser/notekeep/internal/testutil"
	"go.uber.org/zap"
)

const testAPIKey = "service-api-bearer-0123456789"

func TestStatsHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	router := Routes(NewHandler(db, logger), testAPIKey, logger)

	user := testutil.RegularUser()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	notes := notestore.New(db)
	tags := tagstore.New(db)
	if _, err := notes.Create(ctx, user.ID, "A note", "", nil); err != nil {
		t.Fatalf("notes.Create() error: %v", err)
	}
	if _, err := tags.Create(ctx, user.ID, "work"); err != nil {
		t.Fatalf("tags.Create() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Counts map[string]int64 `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Counts["notes"] != 1 {
		t.Errorf("notes count = %d, want 1", resp.Counts["notes"])
	}
	if resp.Counts["tags"] != 1 {
		t.Errorf("tags count = %d, want 1", resp.Counts["tags"])
	}

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}
