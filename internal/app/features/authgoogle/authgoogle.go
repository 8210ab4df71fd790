// Package authgoogle implements the "Sign in with Google" OAuth flow.
//
// The flow is browser-driven: GET /auth/google redirects to Google's
// consent screen and GET /auth/google/callback finishes the exchange,
// establishes a session, and redirects back into the app. State tokens
// are single-use and stored in MongoDB with a TTL.
//
// A Google identity that has no matching account gets one created
// automatically with auth_method "google" and a fresh folder tree.
package authgoogle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	"github.com/dalemusser/notekeep/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/notekeep/internal/app/store/users"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/authutil"
	"github.com/dalemusser/notekeep/internal/app/system/network"
	"github.com/dalemusser/notekeep/internal/app/system/status"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler provides Google OAuth handlers.
type Handler struct {
	users           *userstore.Store
	folders         *folderstore.Manager
	sessionMgr      *auth.SessionManager
	oauthStateStore *oauthstate.Store
	oauthConfig     *oauth2.Config
	logger          *zap.Logger
}

// NewHandler creates a new Google OAuth Handler.
func NewHandler(
	users *userstore.Store,
	folders *folderstore.Manager,
	sessionMgr *auth.SessionManager,
	oauthStateStore *oauthstate.Store,
	clientID string,
	clientSecret string,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:           users,
		folders:         folders,
		sessionMgr:      sessionMgr,
		oauthStateStore: oauthStateStore,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

// Routes returns a chi.Router with Google OAuth routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

// startAuth initiates the Google OAuth flow.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	if err := h.oauthStateStore.Create(r.Context(), state); err != nil {
		h.logger.Error("failed to store oauth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=oauth_error", http.StatusSeeOther)
		return
	}

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// handleCallback processes the Google OAuth callback.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	// State tokens are single-use; Verify consumes it.
	state := r.URL.Query().Get("state")
	if !h.oauthStateStore.Verify(r.Context(), state) {
		h.logger.Warn("invalid oauth state", zap.String("ip", network.GetClientIP(r)))
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.Warn("oauth error from google", zap.String("error", errMsg))
		http.Redirect(w, r, "/login?error="+errMsg, http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("failed to exchange oauth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange_failed", http.StatusSeeOther)
		return
	}

	userInfo, err := h.getUserInfo(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to get google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=userinfo_failed", http.StatusSeeOther)
		return
	}

	if !userInfo.VerifiedEmail {
		h.logger.Warn("google account email not verified", zap.String("email", userInfo.Email))
		http.Redirect(w, r, "/login?error=email_not_verified", http.StatusSeeOther)
		return
	}

	user, err := h.findOrCreateUser(r.Context(), userInfo)
	if err != nil {
		h.logger.Error("failed to find or create user", zap.Error(err))
		http.Redirect(w, r, "/login?error=database_error", http.StatusSeeOther)
		return
	}

	if user.Status != status.Active {
		h.logger.Warn("disabled account attempted google login",
			zap.String("user_id", user.ID.Hex()))
		http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role, ""); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		http.Redirect(w, r, "/login?error=session_error", http.StatusSeeOther)
		return
	}

	h.logger.Info("google login",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email),
		zap.String("ip", network.GetClientIP(r)))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// findOrCreateUser resolves a Google identity to an account, creating one
// on first sign-in.
func (h *Handler) findOrCreateUser(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	user, err := h.users.GetByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}

	created, err := h.users.Create(ctx, models.User{
		FullName:   name,
		Email:      info.Email,
		AuthMethod: authutil.MethodGoogle,
		Role:       models.RoleUser,
		Status:     status.Active,
	})
	if err != nil {
		// Lost a race with a concurrent first sign-in.
		if err == userstore.ErrDuplicateEmail {
			return h.users.GetByEmail(ctx, info.Email)
		}
		return nil, err
	}

	if _, err := h.folders.Initialize(ctx, created.ID.Hex()); err != nil {
		h.logger.Warn("failed to initialize folder tree for new user",
			zap.String("user_id", created.ID.Hex()),
			zap.Error(err))
	}

	h.logger.Info("created user from google sign-in",
		zap.String("user_id", created.ID.Hex()),
		zap.String("email", created.Email))

	return &created, nil
}

// GoogleUserInfo represents user info from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// getUserInfo fetches user info from Google.
func (h *Handler) getUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
