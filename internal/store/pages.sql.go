// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

const listPageSummaries = `-- name: ListPageSummaries :many
SELECT id, slug, COALESCE(title, '') FROM pages ORDER BY id`

func (q *Queries) ListPageSummaries(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPageSummaries)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Page{}
	for rows.Next() {
		var i Page
		if err := rows.Scan(&i.ID, &i.Slug, &i.Title); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT id, slug, COALESCE(title, ''), COALESCE(content, '') FROM pages WHERE slug = ?`

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	var i Page
	err := q.db.QueryRowContext(ctx, getPageBySlug, slug).Scan(
		&i.ID,
		&i.Slug,
		&i.Title,
		&i.Content,
	)
	return i, err
}

const updatePage = `-- name: UpdatePage :execrows
UPDATE pages SET title = ?, content = ? WHERE slug = ?`

// UpdatePage replaces the title and content of the page with slug.
func (q *Queries) UpdatePage(ctx context.Context, slug, title, content string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePage, title, content, slug)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertPageIfAbsent = `-- name: InsertPageIfAbsent :execrows
INSERT OR IGNORE INTO pages (slug, title, content) VALUES (?, ?, ?)`

// InsertPageIfAbsent creates a page unless its slug already exists.
func (q *Queries) InsertPageIfAbsent(ctx context.Context, slug, title, content string) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertPageIfAbsent, slug, title, content)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
