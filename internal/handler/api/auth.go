// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/middleware"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the body of the login, logout and verify endpoints.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login checks the admin credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lockKey := middleware.LoginKey(r, req.Username)
	if h.login != nil {
		if locked, remaining := h.login.IsLocked(lockKey); locked {
			h.logger.WarnContext(r.Context(), "login attempt on locked account", "username", req.Username)
			WriteError(w, http.StatusTooManyRequests, lockedMessage(remaining))
			return
		}
	}

	if err := h.creds.Check(req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.internalError(w, r, "checking credentials", err)
			return
		}
		attrs := []any{"username", req.Username}
		if h.login != nil {
			if locked, d := h.login.RecordFailedAttempt(lockKey); locked {
				h.logger.WarnContext(r.Context(), "account locked", "username", req.Username, "duration", d)
			}
			attrs = append(attrs, "remaining_attempts", h.login.RemainingAttempts(lockKey))
		}
		h.logger.WarnContext(r.Context(), "failed login", attrs...)
		WriteJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	token, expires, err := h.issuer.Issue(req.Username)
	if err != nil {
		h.internalError(w, r, "issuing session token", err)
		return
	}

	if h.login != nil {
		h.login.RecordSuccessfulLogin(lockKey)
	}
	h.cookie.Set(w, token, expires)
	h.logger.InfoContext(r.Context(), "admin logged in", "username", req.Username)

	WriteJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Logged in successfully"})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookie.Clear(w)
	WriteJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Logged out"})
}

// Verify reports a valid session. It runs behind RequireSession.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPrincipal(r) == nil {
		WriteError(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}
	WriteJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Token is valid"})
}

func lockedMessage(remaining time.Duration) string {
	minutes := int(remaining.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Too many failed attempts. Try again in %d minute(s).", minutes)
}
