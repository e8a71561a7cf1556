// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// StripTrailingSlash routes "/api/projects/" like "/api/projects". The path is
// rewritten in place rather than redirected so POST bodies survive.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" && strings.HasSuffix(path, "/") {
			path = strings.TrimRight(path, "/")
			if path == "" {
				path = "/"
			}
			r.URL.Path = path
			r.URL.RawPath = ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				rctx.RoutePath = path
			}
		}
		next.ServeHTTP(w, r)
	})
}
