// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// BlogPost is a dated article made of content sections.
type BlogPost struct {
	ID      int64         `json:"id"`
	Slug    string        `json:"slug"`
	Title   string        `json:"title"`
	Date    string        `json:"date"`
	Excerpt string        `json:"excerpt"`
	Tags    List[string]  `json:"tags"`
	Content List[Section] `json:"content"`
}
