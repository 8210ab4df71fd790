// Package authapi provides JSON endpoints for password-based signup and
// login, plus logout and a "who am I" probe.
//
// Endpoints (mounted at /api/auth):
//   - POST /api/auth/signup - Create an account and sign in
//   - POST /api/auth/login  - Sign in with email + password
//   - POST /api/auth/logout - End the current session
//   - GET  /api/auth/me     - Return the signed-in user
//
// Login attempts are rate limited per email. Google sign-in lives in the
// authgoogle feature.
package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	"github.com/dalemusser/notekeep/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/notekeep/internal/app/store/users"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/authutil"
	"github.com/dalemusser/notekeep/internal/app/system/inputval"
	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"github.com/dalemusser/notekeep/internal/app/system/status"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles authentication API requests.
type Handler struct {
	users      *userstore.Store
	folders    *folderstore.Manager
	rateLimits *ratelimit.Store
	sessionMgr *auth.SessionManager
	logger     *zap.Logger
}

// NewHandler creates a new authapi handler.
func NewHandler(
	users *userstore.Store,
	folders *folderstore.Manager,
	rateLimits *ratelimit.Store,
	sessionMgr *auth.SessionManager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:      users,
		folders:    folders,
		rateLimits: rateLimits,
		sessionMgr: sessionMgr,
		logger:     logger,
	}
}

// SignupHandler handles POST /api/auth/signup.
//
// Request body: {"full_name": ..., "email": ..., "password": ...}
// Response (201 Created): the new user, signed in.
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FullName string `json:"full_name" validate:"required,max=200" label:"Full name"`
		Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	in.FullName = strings.TrimSpace(in.FullName)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		jsonutil.InternalError(w, "failed to create account")
		return
	}

	user, err := h.users.Create(r.Context(), models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		AuthMethod:   authutil.MethodPassword,
		PasswordHash: &hash,
		Role:         models.RoleUser,
		Status:       status.Active,
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			jsonutil.Error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		jsonutil.InternalError(w, "failed to create account")
		return
	}

	// Every account starts with a folder tree. If this fails the user can
	// still initialize later via POST /api/folders/initialize.
	if _, err := h.folders.Initialize(r.Context(), user.ID.Hex()); err != nil {
		h.logger.Warn("failed to initialize folder tree for new user",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role, ""); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		jsonutil.InternalError(w, "account created but sign-in failed")
		return
	}

	h.logger.Info("user signed up",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	jsonutil.Created(w, user)
}

// LoginHandler handles POST /api/auth/login.
//
// Request body: {"email": ..., "password": ...}
// Response (200 OK): the signed-in user.
// Response (429 Too Many Requests): too many failed attempts.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonutil.BadRequest(w, "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		jsonutil.BadRequest(w, "email and password are required")
		return
	}

	// Rate limiting is optional; a nil store means it is disabled.
	if h.rateLimits != nil {
		allowed, _, lockedUntil := h.rateLimits.CheckAllowed(r.Context(), email)
		if !allowed {
			h.logger.Warn("login rate limited", zap.String("email", email))
			msg := "too many failed attempts, try again later"
			if lockedUntil != nil {
				msg = fmt.Sprintf("too many failed attempts, try again in %s",
					time.Until(*lockedUntil).Round(time.Minute))
			}
			jsonutil.Error(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.recordFailure(r, email)
			jsonutil.Unauthorized(w, "invalid email or password")
			return
		}
		h.logger.Error("failed to look up user", zap.Error(err))
		jsonutil.InternalError(w, "login failed")
		return
	}

	if user.PasswordHash == nil || !authutil.CheckPassword(in.Password, *user.PasswordHash) {
		h.recordFailure(r, email)
		jsonutil.Unauthorized(w, "invalid email or password")
		return
	}

	if user.Status != status.Active {
		jsonutil.Forbidden(w, "account is disabled")
		return
	}

	if h.rateLimits != nil {
		_ = h.rateLimits.ClearOnSuccess(r.Context(), email)
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role, ""); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		jsonutil.InternalError(w, "login failed")
		return
	}

	h.logger.Info("user logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	jsonutil.OK(w, user)
}

func (h *Handler) recordFailure(r *http.Request, email string) {
	if h.rateLimits != nil {
		h.rateLimits.RecordFailure(r.Context(), email)
	}
}

// LogoutHandler handles POST /api/auth/logout.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessionMgr.DestroySession(w, r)
	jsonutil.NoContent(w)
}

// MeHandler handles GET /api/auth/me.
// It returns the signed-in user's session identity.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Unauthorized(w, "authentication required")
		return
	}
	jsonutil.OK(w, map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}
