// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

// MessageRequest is the body of POST /api/messages.
type MessageRequest struct {
	ProjectDescription string `json:"projectDescription"`
	ContactInfo        string `json:"contactInfo"`
}

// MessageCreatedResponse is the body returned for a stored message.
type MessageCreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// CreateMessage handles POST /api/messages. Both fields are stored as
// submitted, less surrounding whitespace.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	description := strings.TrimSpace(req.ProjectDescription)
	contact := strings.TrimSpace(req.ContactInfo)
	if description == "" || contact == "" {
		WriteBadRequest(w, "Project description and contact info are required.")
		return
	}

	id, err := h.queries.CreateMessage(r.Context(), description, contact, h.now())
	if err != nil {
		h.internalError(w, r, "storing message", err)
		return
	}

	h.logger.InfoContext(r.Context(), "message received", "id", id)
	WriteJSON(w, http.StatusCreated, MessageCreatedResponse{Success: true, ID: id})
}

// ListMessages handles GET /api/messages, newest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListMessages(r.Context())
	if err != nil {
		h.internalError(w, r, "listing messages", err)
		return
	}

	messages := make([]model.Message, 0, len(rows))
	for _, m := range rows {
		messages = append(messages, model.Message(m))
	}
	WriteJSON(w, http.StatusOK, messages)
}

// DeleteMessage handles DELETE /api/messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "message")
	if !ok {
		return
	}
	changes, err := h.queries.DeleteMessage(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "deleting message", err)
		return
	}
	WriteChanges(w, "deleted", changes)
}
