// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the portfolio domain types shared by the store and API layers.
package model

// Section is a titled sub-block of rich content composing a project or post body.
type Section struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl"`
}

// Project is a portfolio case study.
type Project struct {
	ID        int64         `json:"id"`
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	Year      string        `json:"year"`
	Blurb     string        `json:"blurb"`
	Tags      List[string]  `json:"tags"`
	Thumbnail string        `json:"thumbnail"`
	Images    List[string]  `json:"images"`
	Outcome   string        `json:"outcome"`
	Challenge string        `json:"challenge"`
	Solution  string        `json:"solution"`
	Content   List[Section] `json:"content"`
}

// ProjectSummary is the subset of a project shown in listings that reference it.
type ProjectSummary struct {
	ID        int64        `json:"id"`
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	Year      string       `json:"year"`
	Blurb     string       `json:"blurb"`
	Tags      List[string] `json:"tags"`
	Thumbnail string       `json:"thumbnail"`
}

// Summary returns the listing view of the project.
func (p Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Year:      p.Year,
		Blurb:     p.Blurb,
		Tags:      p.Tags,
		Thumbnail: p.Thumbnail,
	}
}
