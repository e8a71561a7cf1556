// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers of the folio API.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
)

// Deps are the collaborators of Handler.
type Deps struct {
	DB          *sql.DB
	Issuer      *auth.TokenIssuer
	Credentials *auth.Credentials
	Cookie      middleware.SessionCookie
	Login       *middleware.LoginProtection
	Uploads     *service.UploadService
	Logger      *slog.Logger

	// UploadMaxFiles caps the number of files per upload request.
	UploadMaxFiles int
	// UploadMaxBytes caps the upload request body.
	UploadMaxBytes int64
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	issuer   *auth.TokenIssuer
	creds    *auth.Credentials
	cookie   middleware.SessionCookie
	login    *middleware.LoginProtection
	renderer *render.Renderer
	uploads  *service.UploadService
	logger   *slog.Logger

	maxFiles  int
	maxBytes  int64
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        d.DB,
		queries:   store.New(d.DB),
		issuer:    d.Issuer,
		creds:     d.Credentials,
		cookie:    d.Cookie,
		login:     d.Login,
		renderer:  render.New(),
		uploads:   d.Uploads,
		logger:    logger,
		maxFiles:  d.UploadMaxFiles,
		maxBytes:  d.UploadMaxBytes,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// MessageResponse is the body of every error and of most write responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChangesResponse reports the rows touched by an update or delete.
type ChangesResponse struct {
	Message string `json:"message"`
	Changes int64  `json:"changes"`
}

// CreatedResponse carries the id of a created row.
type CreatedResponse struct {
	Data CreatedID `json:"data"`
}

// CreatedID is the payload of CreatedResponse.
type CreatedID struct {
	ID int64 `json:"id"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes {"message": message} with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponse{Message: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, entityName string) {
	WriteError(w, http.StatusNotFound, capitalizeFirst(entityName)+" not found.")
}

// WriteCreated writes a 201 Created response carrying id.
func WriteCreated(w http.ResponseWriter, id int64) {
	WriteJSON(w, http.StatusCreated, CreatedResponse{Data: CreatedID{ID: id}})
}

// WriteChanges writes a 200 response reporting the affected row count.
func WriteChanges(w http.ResponseWriter, message string, changes int64) {
	WriteJSON(w, http.StatusOK, ChangesResponse{Message: message, Changes: changes})
}

// internalError logs err and writes it as a 500 response.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.logger.ErrorContext(r.Context(), action, "error", err, "path", r.URL.Path)
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// decodeJSON decodes the request body into v. It writes a 400 response and
// returns false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteBadRequest(w, "Invalid request body.")
		return false
	}
	return true
}

// parseIDParam returns the {id} URL parameter as a positive integer.
func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// requireID parses the {id} URL parameter. Returns false if the response has
// already been written.
func requireID(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID.")
		return 0, false
	}
	return id, true
}

// EntityFetcher is a function that fetches an entity.
type EntityFetcher[T any] func() (T, error)

// requireEntity fetches an entity and maps sql.ErrNoRows to 404.
// Returns false if the response has already been written.
func requireEntity[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	entity, err := fetch()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, entityName)
		} else {
			h.internalError(w, r, "fetching "+entityName, err)
		}
		return zero, false
	}
	return entity, true
}

// SlugExistsChecker is a function that counts rows other than the current
// one using a slug.
type SlugExistsChecker func() (int64, error)

const slugTakenMessage = "Slug already exists."

// checkSlugUnique returns false with a 400 written when the slug is taken.
func (h *Handler) checkSlugUnique(w http.ResponseWriter, r *http.Request, slugExists SlugExistsChecker) bool {
	exists, err := slugExists()
	if err != nil {
		h.internalError(w, r, "checking slug", err)
		return false
	}
	if exists != 0 {
		WriteBadRequest(w, slugTakenMessage)
		return false
	}
	return true
}

// writeError maps a failed write to a response: a slug collision is a 400,
// anything else a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	if store.IsUniqueViolation(err) {
		WriteBadRequest(w, slugTakenMessage)
		return
	}
	h.internalError(w, r, action, err)
}

// wantsHTML reports whether the caller asked for rendered section bodies.
func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("render") == "html"
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
