// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// MsgCSRFRejected is returned when a cross-origin write is rejected.
const MsgCSRFRejected = "Forbidden: cross-origin request rejected"

// CSRFConfig holds configuration for CSRF protection.
// filippo.io/csrf/gorilla checks Fetch metadata headers, so requests from
// non-browser clients pass and no token round trip is needed.
type CSRFConfig struct {
	// AuthKey is a 32-byte key kept for gorilla/csrf compatibility.
	AuthKey []byte

	// TrustedOrigins are host[:port] values allowed to send cross-origin
	// writes, normally the CORS origins of the frontend.
	TrustedOrigins []string
}

// CSRF returns a middleware that rejects cross-origin state-changing requests
// from untrusted origins with 403.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	writeError(w, http.StatusForbidden, MsgCSRFRejected)
}
