// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/content"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// PageResponse is a page as served to the site.
type PageResponse struct {
	model.Page
	// SelectedProjects is set for ?expand=projects on the home page.
	SelectedProjects any `json:"selectedProjects,omitempty"`
}

// UpdatePageRequest is the body of PUT /api/pages/{slug}.
type UpdatePageRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// PatchPageRequest is the body of PATCH /api/pages/{slug}.
type PatchPageRequest struct {
	Ops []content.PatchOp `json:"ops"`
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListPageSummaries(r.Context())
	if err != nil {
		h.internalError(w, r, "listing pages", err)
		return
	}

	pages := make([]model.PageSummary, 0, len(rows))
	for _, p := range rows {
		pages = append(pages, model.PageSummary{ID: p.ID, Slug: p.Slug, Title: p.Title})
	}
	WriteJSON(w, http.StatusOK, pages)
}

// GetPage handles GET /api/pages/{slug}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	row, ok := requireEntity(h, w, r, "page", func() (store.Page, error) {
		return h.queries.GetPageBySlug(r.Context(), slug)
	})
	if !ok {
		return
	}

	doc, err := model.DecodeStoredPageContent(row.Slug, row.Content)
	if err != nil {
		h.internalError(w, r, "decoding page", err)
		return
	}

	resp := PageResponse{Page: model.Page{ID: row.ID, Slug: row.Slug, Title: row.Title, Content: doc}}

	if row.Slug == model.PageHome && r.URL.Query().Get("expand") == "projects" {
		projects, err := h.queries.ListProjectsByIDs(r.Context(), content.SelectedProjectIDs(row.Content))
		if err != nil {
			h.internalError(w, r, "expanding selected projects", err)
			return
		}
		summaries := make([]model.ProjectSummary, 0, len(projects))
		for _, p := range projects {
			summaries = append(summaries, model.Project(p).Summary())
		}
		resp.SelectedProjects = summaries
	}

	WriteJSON(w, http.StatusOK, resp)
}

// UpdatePage handles PUT /api/pages/{slug}. The content must match the
// document shape of the slug.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req UpdatePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		WriteBadRequest(w, "Title is required.")
		return
	}
	if len(req.Content) == 0 || string(bytes.TrimSpace(req.Content)) == "null" {
		WriteBadRequest(w, "Content is required.")
		return
	}

	h.storePage(w, r, slug, title, req.Content)
}

// PatchPage handles PATCH /api/pages/{slug}. Operations apply in order to
// the stored document; the result must still match the page's shape.
func (h *Handler) PatchPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req PatchPageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Ops) == 0 {
		WriteBadRequest(w, "No operations given.")
		return
	}

	row, ok := requireEntity(h, w, r, "page", func() (store.Page, error) {
		return h.queries.GetPageBySlug(r.Context(), slug)
	})
	if !ok {
		return
	}

	doc, err := content.Apply([]byte(row.Content), req.Ops)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrNotContainer):
			WriteBadRequest(w, "Page content cannot be patched; replace it instead.")
		case errors.Is(err, content.ErrInvalidOp):
			WriteBadRequest(w, err.Error())
		default:
			h.internalError(w, r, "patching page", err)
		}
		return
	}

	h.storePage(w, r, slug, row.Title, doc)
}

// storePage validates doc against the slug's shape and writes it.
func (h *Handler) storePage(w http.ResponseWriter, r *http.Request, slug, title string, doc []byte) {
	parsed, err := model.ParsePageContent(slug, doc)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPageContent) {
			WriteBadRequest(w, err.Error())
			return
		}
		h.internalError(w, r, "parsing page content", err)
		return
	}

	stored, err := model.EncodePageContent(parsed)
	if err != nil {
		h.internalError(w, r, "encoding page content", err)
		return
	}

	changes, err := h.queries.UpdatePage(r.Context(), slug, title, stored)
	if err != nil {
		h.internalError(w, r, "updating page", err)
		return
	}
	if changes > 0 {
		h.logger.InfoContext(r.Context(), "page updated", "slug", slug)
	}
	WriteChanges(w, "Page updated", changes)
}
