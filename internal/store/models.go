// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"

	"github.com/olegiv/folio/internal/model"
)

type Project struct {
	ID        int64
	Slug      string
	Title     string
	Year      string
	Blurb     string
	Tags      model.List[string]
	Thumbnail string
	Images    model.List[string]
	Outcome   string
	Challenge string
	Solution  string
	Content   model.List[model.Section]
}

type BlogPost struct {
	ID      int64
	Slug    string
	Title   string
	Date    string
	Excerpt string
	Tags    model.List[string]
	Content model.List[model.Section]
}

type Page struct {
	ID      int64
	Slug    string
	Title   string
	Content string
}

type Message struct {
	ID                 int64
	ProjectDescription string
	ContactInfo        string
	SubmittedAt        time.Time
}
