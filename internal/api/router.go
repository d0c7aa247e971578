// Package api exposes the HTTP boundary: session auth, proxied catalog
// lookups, the add-book flow, library read-models, and file downloads.
package api

import (
	"log/slog"
	"net/http"

	"github.com/mkaschner/lectern/internal/api/middleware"
	"github.com/mkaschner/lectern/internal/auth"
	"github.com/mkaschner/lectern/internal/history"
	"github.com/mkaschner/lectern/internal/readarr"
	"github.com/mkaschner/lectern/internal/request"
)

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	AuthService    *auth.Service
	RequestService *request.Service
	HistoryService *history.Service
	Readarr        *readarr.Client
	Logger         *slog.Logger
	BasePath       string
	MountPath      string
}

// Router sets up all HTTP routes for the application.
type Router struct {
	authService    *auth.Service
	requestService *request.Service
	historyService *history.Service
	readarr        *readarr.Client
	logger         *slog.Logger
	basePath       string
	mountPath      string
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		authService:    deps.AuthService,
		requestService: deps.RequestService,
		historyService: deps.HistoryService,
		readarr:        deps.Readarr,
		logger:         deps.Logger,
		basePath:       deps.BasePath,
		mountPath:      deps.MountPath,
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	authMw := middleware.Auth(r.authService)
	loginLimiter := middleware.NewLoginRateLimiter()
	mux := http.NewServeMux()
	bp := r.basePath

	// Public routes (no auth)
	mux.HandleFunc("GET "+bp+"/api/v1/health", r.handleHealth)
	mux.Handle("POST "+bp+"/api/v1/auth/login", loginLimiter.Middleware(http.HandlerFunc(r.handleLogin)))

	// Protected routes (auth required)
	mux.HandleFunc("POST "+bp+"/api/v1/auth/logout", wrapAuth(r.handleLogout, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/auth/me", wrapAuth(r.handleMe, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/search", wrapAuth(r.handleSearch, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/books", wrapAuth(r.handleListBooks, authMw))
	mux.HandleFunc("POST "+bp+"/api/v1/books", wrapAuth(r.handleAddBook, authMw))
	mux.HandleFunc("POST "+bp+"/api/v1/command/search-books", wrapAuth(r.handleSearchBooks, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/queue", wrapAuth(r.handleQueue, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/library", wrapAuth(r.handleLibrary, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/download/{bookId}", wrapAuth(r.handleDownload, authMw))
	mux.HandleFunc("GET "+bp+"/api/v1/history", wrapAuth(r.handleHistory, authMw))

	// Apply logging to all requests
	return middleware.Logging(r.logger)(mux)
}

// wrapAuth wraps a handler function with auth middleware.
func wrapAuth(fn http.HandlerFunc, authMw func(http.Handler) http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authMw(fn).ServeHTTP(w, r)
	}
}
