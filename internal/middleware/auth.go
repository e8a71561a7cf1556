// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session checks, login
// protection and request handling.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/folio/internal/auth"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyPrincipal holds the verified session claims.
const ContextKeyPrincipal ContextKey = "principal"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// Messages returned when a protected route is called without a valid session.
const (
	MsgNoToken      = "Unauthorized: No token provided"
	MsgInvalidToken = "Unauthorized: Invalid token"
)

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionCookie configures the session cookie attributes.
type SessionCookie struct {
	// Secure marks the cookie HTTPS-only; set outside development.
	Secure bool
}

// Set writes the session cookie carrying token.
func (c SessionCookie) Set(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear instructs the client to drop the session cookie.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession rejects requests without a valid session cookie with 401
// and clears the cookie. Verified claims are stored in the request context.
func RequireSession(verifier TokenVerifier, cookie SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				cookie.Clear(w)
				writeError(w, http.StatusUnauthorized, MsgNoToken)
				return
			}

			claims, err := verifier.Verify(c.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) {
					slog.Error("verifying session token", "error", err)
				}
				cookie.Clear(w)
				writeError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal returns the session claims of the request, or nil outside a
// protected route.
func GetPrincipal(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyPrincipal).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUsername returns the admin username of the request, or "" if none.
func GetUsername(r *http.Request) string {
	if p := GetPrincipal(r); p != nil {
		return p.Username
	}
	return ""
}

// writeError writes {"message": msg} with status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
