// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

const listUploadReferences = `-- name: ListUploadReferences :many
SELECT COALESCE(thumbnail, '') || char(10) || COALESCE(images, '') || char(10) || COALESCE(content, '') FROM projects
UNION ALL
SELECT COALESCE(content, '') FROM blog_posts
UNION ALL
SELECT COALESCE(content, '') FROM pages`

// ListUploadReferences returns the stored text of every column that may
// reference an uploaded file. Callers extract the paths.
func (q *Queries) ListUploadReferences(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUploadReferences)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		items = append(items, text)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
