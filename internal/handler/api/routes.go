// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/folio/internal/middleware"
)

// uploadsCacheMaxAge is the Cache-Control max-age of uploaded files. Stored
// names are unique, so files never change under a URL.
const uploadsCacheMaxAge = 31536000

// RouterConfig holds the settings of the HTTP middleware stack.
type RouterConfig struct {
	Logger        *slog.Logger
	IsDevelopment bool

	// CORSOrigins may call the API from a browser with credentials.
	CORSOrigins []string
	// CSRFKey is a 32-byte key for the CSRF middleware.
	CSRFKey []byte
	// TrustedOrigins are host[:port] values allowed to send cross-origin writes.
	TrustedOrigins []string

	// MessageRateLimit is contact form submissions per minute per IP.
	MessageRateLimit int
}

// NewRouter returns the complete HTTP handler: middleware, API routes,
// health checks and uploaded files.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = h.logger
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.CSRF(middleware.CSRFConfig{
		AuthKey:        cfg.CSRFKey,
		TrustedOrigins: cfg.TrustedOrigins,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)

	r.With(middleware.StaticCache(uploadsCacheMaxAge)).
		Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer(h.uploads.Dir())))

	r.Route("/api", func(r chi.Router) {
		h.Mount(r, cfg)
	})

	return r
}

// Mount registers the API routes on r.
func (h *Handler) Mount(r chi.Router, cfg RouterConfig) {
	login := r
	if h.login != nil {
		login = r.With(h.login.Middleware())
	}
	login.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	// Public site
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/slug/{slug}", h.GetProjectBySlug)
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/slug/{slug}", h.GetPostBySlug)
	r.Get("/pages/{slug}", h.GetPage)
	r.With(middleware.LimitPerMinute(cfg.MessageRateLimit)).Post("/messages", h.CreateMessage)

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.issuer, h.cookie))

		r.Get("/verify", h.Verify)

		r.Get("/projects/{id}", h.GetProject)
		r.Post("/projects", h.CreateProject)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		r.Get("/posts/{id}", h.GetPost)
		r.Post("/posts", h.CreatePost)
		r.Put("/posts/{id}", h.UpdatePost)
		r.Delete("/posts/{id}", h.DeletePost)

		r.Get("/pages", h.ListPages)
		r.Put("/pages/{slug}", h.UpdatePage)
		r.Patch("/pages/{slug}", h.PatchPage)

		r.Get("/messages", h.ListMessages)
		r.Delete("/messages/{id}", h.DeleteMessage)

		r.Post("/upload", h.Upload)
	})
}

// fileServer serves files from dir without directory listings.
func fileServer(dir string) http.Handler {
	return http.FileServer(filesOnly{http.Dir(dir)})
}

// filesOnly hides directories.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
