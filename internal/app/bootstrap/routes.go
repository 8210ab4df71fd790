// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	authapifeature "github.com/dalemusser/notekeep/internal/app/features/authapi"
	authgooglefeature "github.com/dalemusser/notekeep/internal/app/features/authgoogle"
	folderapifeature "github.com/dalemusser/notekeep/internal/app/features/folderapi"
	healthfeature "github.com/dalemusser/notekeep/internal/app/features/health"
	noteapifeature "github.com/dalemusser/notekeep/internal/app/features/noteapi"
	statsapifeature "github.com/dalemusser/notekeep/internal/app/features/statsapi"
	tagapifeature "github.com/dalemusser/notekeep/internal/app/features/tagapi"
	folderstore "github.com/dalemusser/notekeep/internal/app/store/folder"
	notestore "github.com/dalemusser/notekeep/internal/app/store/note"
	"github.com/dalemusser/notekeep/internal/app/store/oauthstate"
	"github.com/dalemusser/notekeep/internal/app/store/ratelimit"
	tagstore "github.com/dalemusser/notekeep/internal/app/store/tag"
	userstore "github.com/dalemusser/notekeep/internal/app/store/users"
	"github.com/dalemusser/notekeep/internal/app/system/auth"
	"github.com/dalemusser/notekeep/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// # Authentication surfaces
//
// Browser and sync clients authenticate with a session cookie and send the
// CSRF token in the X-CSRF-Token header (fetched from GET /api/csrf).
// Machine clients use the configured API key (Authorization: Bearer) on the
// /api/service routes, which skip CSRF entirely:
//   - auth.APIKeyAuth: Bearer token authentication middleware
//   - apicors.Middleware: permissive CORS for key-authenticated endpoints
//   - jsonutil: JSON response helpers
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on each request.
	// This ensures role changes, disabled accounts, and profile updates take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Stores shared by the feature handlers.
	users := userstore.New(deps.MongoDatabase)
	folders := folderstore.NewManager(deps.MongoDatabase, logger)
	notes := notestore.New(deps.MongoDatabase)
	tags := tagstore.New(deps.MongoDatabase)

	// Rate limiting for login attempts (nil if disabled)
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads SessionUser into context if logged in.
	// Key-authenticated routes simply have no session, which is fine.
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection middleware for the cookie-authenticated API.
	// Cookie name is "notekeep_csrf" to avoid collisions with other services
	// on the same domain. Clients send the token in the X-CSRF-Token header.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("notekeep_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Forbidden(w, "CSRF token invalid or missing")
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// Wrap CSRF middleware to skip routes that do not ride on cookies:
	// the key-authenticated service routes and the OAuth redirect flow
	// (state tokens protect the callback).
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			path := req.URL.Path
			if strings.HasPrefix(path, "/api/service/") || strings.HasPrefix(path, "/auth/google") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// CSRF token bootstrap for browser and sync clients.
	r.Get("/api/csrf", func(w http.ResponseWriter, req *http.Request) {
		jsonutil.OK(w, map[string]string{"csrf_token": csrf.Token(req)})
	})

	// Authentication (signup, login, logout, me)
	authHandler := authapifeature.NewHandler(users, folders, rateLimitStore, sessionMgr, logger)
	r.Mount("/api/auth", authapifeature.Routes(authHandler, sessionMgr))

	// Google OAuth (only mount if configured)
	if appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != "" {
		oauthStateStore := oauthstate.New(deps.MongoDatabase)
		googleHandler := authgooglefeature.NewHandler(
			users,
			folders,
			sessionMgr,
			oauthStateStore,
			appCfg.GoogleClientID,
			appCfg.GoogleClientSecret,
			appCfg.BaseURL,
			logger,
		)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		logger.Info("Google OAuth enabled", zap.String("redirect_url", appCfg.BaseURL+"/auth/google/callback"))
	}

	// Folder hierarchy, notes, and tags. All session-authenticated.
	folderHandler := folderapifeature.NewHandler(folders, logger)
	noteHandler := noteapifeature.NewHandler(notes, tags, folders, deps.Summarizer, logger)
	tagHandler := tagapifeature.NewHandler(tags, notes, logger)

	r.Group(func(sr chi.Router) {
		sr.Use(sessionMgr.RequireSignedIn)
		sr.Mount("/api/folders", folderapifeature.Routes(folderHandler))
		sr.Mount("/api/items", folderapifeature.ItemRoutes(folderHandler))
		sr.Mount("/api/notes", noteapifeature.Routes(noteHandler))
		sr.Mount("/api/tags", tagapifeature.Routes(tagHandler))
	})

	// Service stats for monitoring (API key auth, permissive CORS, no CSRF)
	statsHandler := statsapifeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/service", statsapifeature.Routes(statsHandler, appCfg.APIKey, logger))

	// 404 catch-all for unmatched routes
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "not found")
	})

	return r, nil
}
