// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// UploadField is the multipart field carrying uploaded files.
const UploadField = "images"

// maxUploadMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const maxUploadMemory = 32 << 20

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Message string   `json:"message"`
	Paths   []string `json:"paths"`
}

// Upload handles POST /api/upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteBadRequest(w, fmt.Sprintf("Upload exceeds %d bytes.", tooLarge.Limit))
			return
		}
		WriteBadRequest(w, "Invalid multipart form.")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	for field := range r.MultipartForm.File {
		if field != UploadField {
			WriteBadRequest(w, fmt.Sprintf("Unexpected field %q.", field))
			return
		}
	}

	files := r.MultipartForm.File[UploadField]
	switch {
	case len(files) == 0:
		WriteBadRequest(w, "No files uploaded.")
		return
	case h.maxFiles > 0 && len(files) > h.maxFiles:
		WriteBadRequest(w, fmt.Sprintf("Too many files; at most %d allowed.", h.maxFiles))
		return
	}

	paths, err := h.uploads.Save(r.Context(), UploadField, files)
	if err != nil {
		h.internalError(w, r, "saving uploads", err)
		return
	}

	h.logger.InfoContext(r.Context(), "files uploaded", "count", len(paths))
	WriteJSON(w, http.StatusOK, UploadResponse{Message: "Files uploaded successfully", Paths: paths})
}
