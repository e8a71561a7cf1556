// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// PostRequest is the body of blog post create and update.
type PostRequest struct {
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Date    string          `json:"date"`
	Excerpt string          `json:"excerpt"`
	Tags    []string        `json:"tags"`
	Content []model.Section `json:"content"`
}

// PostResponse is a blog post whose content may carry rendered bodies.
type PostResponse struct {
	model.BlogPost
	Content any `json:"content"`
}

func (req *PostRequest) params(w http.ResponseWriter) (store.BlogPostParams, bool) {
	slug, ok := validateTitleSlug(w, req.Title, req.Slug)
	if !ok {
		return store.BlogPostParams{}, false
	}
	return store.BlogPostParams{
		Slug:    slug,
		Title:   strings.TrimSpace(req.Title),
		Date:    req.Date,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
		Content: req.Content,
	}, true
}

// ListPosts handles GET /api/posts. Content is omitted from the listing.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListBlogPosts(r.Context())
	if err != nil {
		h.internalError(w, r, "listing posts", err)
		return
	}

	posts := make([]model.BlogPost, 0, len(rows))
	for _, p := range rows {
		posts = append(posts, model.BlogPost(p))
	}
	WriteJSON(w, http.StatusOK, posts)
}

// GetPostBySlug handles GET /api/posts/slug/{slug}.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := requireEntity(h, w, r, "post", func() (store.BlogPost, error) {
		return h.queries.GetBlogPostBySlug(r.Context(), slug)
	})
	if !ok {
		return
	}
	h.writePost(w, r, p)
}

// GetPost handles GET /api/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}
	p, ok := requireEntity(h, w, r, "post", func() (store.BlogPost, error) {
		return h.queries.GetBlogPostByID(r.Context(), id)
	})
	if !ok {
		return
	}
	h.writePost(w, r, p)
}

func (h *Handler) writePost(w http.ResponseWriter, r *http.Request, p store.BlogPost) {
	resp := PostResponse{BlogPost: model.BlogPost(p), Content: p.Content}
	if wantsHTML(r) {
		sections, err := h.renderer.Sections(p.Content)
		if err != nil {
			h.internalError(w, r, "rendering post", err)
			return
		}
		resp.Content = sections
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CreatePost handles POST /api/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}
	if !h.checkSlugUnique(w, r, func() (int64, error) {
		return h.queries.CountBlogPostsBySlug(r.Context(), params.Slug, 0)
	}) {
		return
	}

	id, err := h.queries.CreateBlogPost(r.Context(), params)
	if err != nil {
		h.writeError(w, r, "creating post", err)
		return
	}

	h.logger.InfoContext(r.Context(), "post created", "id", id, "slug", params.Slug)
	WriteCreated(w, id)
}

// UpdatePost handles PUT /api/posts/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}
	var req PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.params(w)
	if !ok {
		return
	}
	changes, err := h.queries.UpdateBlogPost(r.Context(), id, params)
	if err != nil {
		h.writeError(w, r, "updating post", err)
		return
	}
	WriteChanges(w, "updated", changes)
}

// DeletePost handles DELETE /api/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}
	changes, err := h.queries.DeleteBlogPost(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "deleting post", err)
		return
	}
	if changes > 0 {
		h.logger.InfoContext(r.Context(), "post deleted", "id", id)
	}
	WriteChanges(w, "deleted", changes)
}
