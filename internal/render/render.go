// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns section bodies into sanitized HTML.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/folio/internal/model"
)

// Renderer converts Markdown to HTML that is safe to embed in a page.
// It is safe for concurrent use.
type Renderer struct {
	md  goldmark.Markdown
	ugc *bluemonday.Policy
}

// New creates a Renderer with GitHub flavoured Markdown and bluemonday's
// user-generated-content policy.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		ugc: bluemonday.UGCPolicy(),
	}
}

// HTML renders Markdown source to sanitized HTML.
func (r *Renderer) HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return r.ugc.Sanitize(buf.String()), nil
}

// RenderedSection is a section with its body rendered to HTML.
type RenderedSection struct {
	model.Section
	BodyHTML string `json:"bodyHtml"`
}

// Sections renders the body of every section.
func (r *Renderer) Sections(sections []model.Section) ([]RenderedSection, error) {
	out := make([]RenderedSection, 0, len(sections))
	for _, s := range sections {
		body, err := r.HTML(s.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, RenderedSection{Section: s, BodyHTML: body})
	}
	return out, nil
}
