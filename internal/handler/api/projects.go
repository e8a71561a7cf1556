// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// ProjectRequest is the body of project create and update.
type ProjectRequest struct {
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Year      string          `json:"year"`
	Blurb     string          `json:"blurb"`
	Tags      []string        `json:"tags"`
	Thumbnail string          `json:"thumbnail"`
	Images    []string        `json:"images"`
	Outcome   string          `json:"outcome"`
	Challenge string          `json:"challenge"`
	Solution  string          `json:"solution"`
	Content   []model.Section `json:"content"`
}

// ProjectResponse is a project whose content may carry rendered bodies.
type ProjectResponse struct {
	model.Project
	Content any `json:"content"`
}

// params validates req and returns the row to store. It writes a 400
// response and returns false on invalid input.
func (req *ProjectRequest) params(w http.ResponseWriter) (store.ProjectParams, bool) {
	slug, ok := validateTitleSlug(w, req.Title, req.Slug)
	if !ok {
		return store.ProjectParams{}, false
	}
	return store.ProjectParams{
		Slug:      slug,
		Title:     strings.TrimSpace(req.Title),
		Year:      req.Year,
		Blurb:     req.Blurb,
		Tags:      req.Tags,
		Thumbnail: req.Thumbnail,
		Images:    req.Images,
		Outcome:   req.Outcome,
		Challenge: req.Challenge,
		Solution:  req.Solution,
		Content:   req.Content,
	}, true
}

// validateTitleSlug requires a title and returns the slug to store: the given
// one, or one derived from the title.
func validateTitleSlug(w http.ResponseWriter, title, slug string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		WriteBadRequest(w, "Title is required.")
		return "", false
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "Invalid slug.")
		return "", false
	}
	return slug, true
}

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListProjects(r.Context())
	if err != nil {
		h.internalError(w, r, "listing projects", err)
		return
	}

	projects := make([]model.Project, 0, len(rows))
	for _, p := range rows {
		projects = append(projects, model.Project(p))
	}
	WriteJSON(w, http.StatusOK, projects)
}

// GetProjectBySlug handles GET /api/projects/slug/{slug}.
func (h *Handler) GetProjectBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := requireEntity(h, w, r, "project", func() (store.Project, error) {
		return h.queries.GetProjectBySlug(r.Context(), slug)
	})
	if !ok {
		return
	}
	h.writeProject(w, r, p)
}

// GetProject handles GET /api/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "project")
	if !ok {
		return
	}
	p, ok := requireEntity(h, w, r, "project", func() (store.Project, error) {
		return h.queries.GetProjectByID(r.Context(), id)
	})
	if !ok {
		return
	}
	h.writeProject(w, r, p)
}

func (h *Handler) writeProject(w http.ResponseWriter, r *http.Request, p store.Project) {
	resp := ProjectResponse{Project: model.Project(p), Content: p.Content}
	if wantsHTML(r) {
		sections, err := h.renderer.Sections(p.Content)
		if err != nil {
			h.internalError(w, r, "rendering project", err)
			return
		}
		resp.Content = sections
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CreateProject handles POST /api/projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}
	if !h.checkSlugUnique(w, r, func() (int64, error) {
		return h.queries.CountProjectsBySlug(r.Context(), params.Slug, 0)
	}) {
		return
	}

	id, err := h.queries.CreateProject(r.Context(), params)
	if err != nil {
		h.writeError(w, r, "creating project", err)
		return
	}

	h.logger.InfoContext(r.Context(), "project created", "id", id, "slug", params.Slug)
	WriteCreated(w, id)
}

// UpdateProject handles PUT /api/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "project")
	if !ok {
		return
	}
	var req ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}
	changes, err := h.queries.UpdateProject(r.Context(), id, params)
	if err != nil {
		h.writeError(w, r, "updating project", err)
		return
	}
	WriteChanges(w, "updated", changes)
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "project")
	if !ok {
		return
	}
	changes, err := h.queries.DeleteProject(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "deleting project", err)
		return
	}
	if changes > 0 {
		h.logger.InfoContext(r.Context(), "project deleted", "id", id)
	}
	WriteChanges(w, "deleted", changes)
}
