// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

func sampleProject() ProjectRequest {
	return ProjectRequest{
		Title:     "Ronix Rebrand",
		Year:      "2023",
		Blurb:     "A new identity for a tool maker.",
		Tags:      []string{"branding", "ux"},
		Thumbnail: "/uploads/images-1-1.png",
		Images:    []string{"/uploads/images-1-2.png", "/uploads/images-1-3.png"},
		Outcome:   "Sales up.",
		Challenge: "Old brand.",
		Solution:  "New brand.",
		Content: []model.Section{
			{Title: "Intro", Subtitle: "Why", Body: "**Bold** start", ImageURL: "/uploads/images-1-4.png"},
			{Title: "Process", Body: "Line one\nLine two"},
		},
	}
}

func TestProjects_CreateAndFetchBySlug(t *testing.T) {
	env := newTestEnv(t)
	req := sampleProject()

	id := createdID(t, env.admin(http.MethodPost, "/api/projects", req))

	w := env.do(http.MethodGet, "/api/projects/slug/ronix-rebrand", nil)
	assertStatusCode(t, w, http.StatusOK)

	var got model.Project
	decode(t, w, &got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "ronix-rebrand", got.Slug)
	assert.Equal(t, req.Title, got.Title)
	assert.Equal(t, model.List[string](req.Tags), got.Tags)
	assert.Equal(t, model.List[string](req.Images), got.Images)
	assert.Equal(t, model.List[model.Section](req.Content), got.Content)
	assert.Equal(t, req.Thumbnail, got.Thumbnail)

	// Admin fetch by id returns the same row.
	w = env.admin(http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil)
	assertStatusCode(t, w, http.StatusOK)
	var byID model.Project
	decode(t, w, &byID)
	assert.Equal(t, got, byID)
}

func TestProjects_RenderHTML(t *testing.T) {
	env := newTestEnv(t)
	createdID(t, env.admin(http.MethodPost, "/api/projects", sampleProject()))

	w := env.do(http.MethodGet, "/api/projects/slug/ronix-rebrand?render=html", nil)
	assertStatusCode(t, w, http.StatusOK)

	var got struct {
		Content []struct {
			Body     string `json:"body"`
			BodyHTML string `json:"bodyHtml"`
		} `json:"content"`
	}
	decode(t, w, &got)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "**Bold** start", got.Content[0].Body)
	assert.Contains(t, got.Content[0].BodyHTML, "<strong>Bold</strong>")
	assert.Contains(t, got.Content[1].BodyHTML, "<br")

	// Without the flag no rendered bodies are returned.
	w = env.do(http.MethodGet, "/api/projects/slug/ronix-rebrand", nil)
	assert.NotContains(t, w.Body.String(), "bodyHtml")
}

func TestProjects_ListOrder(t *testing.T) {
	env := newTestEnv(t)

	for _, p := range []struct{ title, year string }{
		{"Old", "2019"},
		{"New", "2024"},
		{"Also New", "2024"},
	} {
		createdID(t, env.admin(http.MethodPost, "/api/projects", ProjectRequest{Title: p.title, Year: p.year}))
	}

	w := env.do(http.MethodGet, "/api/projects", nil)
	assertStatusCode(t, w, http.StatusOK)

	var got []model.Project
	decode(t, w, &got)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"also-new", "new", "old"}, []string{got[0].Slug, got[1].Slug, got[2].Slug})
	assert.NotNil(t, got[0].Tags, "empty JSON columns read back as lists")
}

func TestProjects_EmptyList(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/projects", nil)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestProjects_Validation(t *testing.T) {
	env := newTestEnv(t)
	createdID(t, env.admin(http.MethodPost, "/api/projects", ProjectRequest{Title: "Taken", Slug: "taken"}))

	tests := []struct {
		name    string
		req     ProjectRequest
		message string
	}{
		{"missing title", ProjectRequest{Slug: "x"}, "Title is required."},
		{"blank title", ProjectRequest{Title: "   "}, "Title is required."},
		{"bad slug", ProjectRequest{Title: "Ok", Slug: "Not A Slug!"}, "Invalid slug."},
		{"duplicate slug", ProjectRequest{Title: "Other", Slug: "taken"}, "Slug already exists."},
		{"duplicate derived slug", ProjectRequest{Title: "Taken"}, "Slug already exists."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.admin(http.MethodPost, "/api/projects", tt.req)
			assertStatusCode(t, w, http.StatusBadRequest)
			assert.Equal(t, tt.message, messageOf(t, w))
		})
	}
}

func TestProjects_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/projects/slug/missing", nil)
	assertStatusCode(t, w, http.StatusNotFound)
	assert.Equal(t, "Project not found.", messageOf(t, w))

	w = env.admin(http.MethodGet, "/api/projects/999", nil)
	assertStatusCode(t, w, http.StatusNotFound)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w = env.admin(method, "/api/projects/abc", sampleProject())
		assertStatusCode(t, w, http.StatusBadRequest)
		assert.Equal(t, "Invalid project ID.", messageOf(t, w))
	}
}

func TestProjects_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	id := createdID(t, env.admin(http.MethodPost, "/api/projects", sampleProject()))
	other := createdID(t, env.admin(http.MethodPost, "/api/projects", ProjectRequest{Title: "Second"}))
	path := fmt.Sprintf("/api/projects/%d", id)

	update := sampleProject()
	update.Title = "Ronix Rebrand v2"
	update.Slug = "ronix-rebrand"
	update.Tags = []string{"identity"}

	w := env.admin(http.MethodPut, path, update)
	assertStatusCode(t, w, http.StatusOK)
	var changes ChangesResponse
	decode(t, w, &changes)
	assert.Equal(t, ChangesResponse{Message: "updated", Changes: 1}, changes)

	var got model.Project
	decode(t, env.admin(http.MethodGet, path, nil), &got)
	assert.Equal(t, "Ronix Rebrand v2", got.Title)
	assert.Equal(t, model.List[string]{"identity"}, got.Tags)

	// A slug owned by another row is rejected.
	update.Slug = "second"
	w = env.admin(http.MethodPut, path, update)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, "Slug already exists.", messageOf(t, w))

	// Updating a missing row is not an error.
	w = env.admin(http.MethodPut, "/api/projects/999", sampleProject())
	assertStatusCode(t, w, http.StatusOK)
	decode(t, w, &changes)
	assert.Equal(t, int64(0), changes.Changes)

	// Even when its slug belongs to an existing row.
	w = env.admin(http.MethodPut, "/api/projects/999", ProjectRequest{Title: "Second"})
	assertStatusCode(t, w, http.StatusOK)
	decode(t, w, &changes)
	assert.Equal(t, ChangesResponse{Message: "updated", Changes: 0}, changes)

	w = env.admin(http.MethodDelete, fmt.Sprintf("/api/projects/%d", other), nil)
	assertStatusCode(t, w, http.StatusOK)
	decode(t, w, &changes)
	assert.Equal(t, ChangesResponse{Message: "deleted", Changes: 1}, changes)

	w = env.admin(http.MethodDelete, fmt.Sprintf("/api/projects/%d", other), nil)
	assertStatusCode(t, w, http.StatusOK)
	decode(t, w, &changes)
	assert.Equal(t, int64(0), changes.Changes)
}
