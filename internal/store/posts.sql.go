// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/folio/internal/model"
)

const listBlogPosts = `-- name: ListBlogPosts :many
SELECT id, slug, title, COALESCE(date, ''), COALESCE(excerpt, ''), tags
FROM blog_posts ORDER BY date DESC, id DESC`

// ListBlogPosts returns every post without its content.
func (q *Queries) ListBlogPosts(ctx context.Context) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listBlogPosts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BlogPost{}
	for rows.Next() {
		var i BlogPost
		if err := rows.Scan(
			&i.ID,
			&i.Slug,
			&i.Title,
			&i.Date,
			&i.Excerpt,
			&i.Tags,
		); err != nil {
			return nil, err
		}
		i.Content = model.List[model.Section]{}
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

const blogPostColumns = `id, slug, title, COALESCE(date, ''), COALESCE(excerpt, ''), tags, content`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var i BlogPost
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Title,
		&i.Date,
		&i.Excerpt,
		&i.Tags,
		&i.Content,
	)
	return i, err
}

const getBlogPostBySlug = `-- name: GetBlogPostBySlug :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = ?`

func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostBySlug, slug))
}

const getBlogPostByID = `-- name: GetBlogPostByID :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostByID, id))
}

type BlogPostParams struct {
	Slug    string
	Title   string
	Date    string
	Excerpt string
	Tags    model.List[string]
	Content model.List[model.Section]
}

const createBlogPost = `-- name: CreateBlogPost :execlastid
INSERT INTO blog_posts (slug, title, date, excerpt, tags, content) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateBlogPost(ctx context.Context, arg BlogPostParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createBlogPost,
		arg.Slug,
		arg.Title,
		arg.Date,
		arg.Excerpt,
		arg.Tags,
		arg.Content,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const updateBlogPost = `-- name: UpdateBlogPost :execrows
UPDATE blog_posts SET slug = ?, title = ?, date = ?, excerpt = ?, tags = ?, content = ?
WHERE id = ?`

func (q *Queries) UpdateBlogPost(ctx context.Context, id int64, arg BlogPostParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBlogPost,
		arg.Slug,
		arg.Title,
		arg.Date,
		arg.Excerpt,
		arg.Tags,
		arg.Content,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteBlogPost = `-- name: DeleteBlogPost :execrows
DELETE FROM blog_posts WHERE id = ?`

func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBlogPost, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countBlogPostsBySlug = `-- name: CountBlogPostsBySlug :one
SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`

func (q *Queries) CountBlogPostsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countBlogPostsBySlug, slug, excludeID).Scan(&count)
	return count, err
}
