// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createMessage = `-- name: CreateMessage :execlastid
INSERT INTO messages (project_description, contact_info, submitted_at) VALUES (?, ?, ?)`

func (q *Queries) CreateMessage(ctx context.Context, projectDescription, contactInfo string, submittedAt time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, createMessage, projectDescription, contactInfo, submittedAt.UTC())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const listMessages = `-- name: ListMessages :many
SELECT id, project_description, contact_info, submitted_at
FROM messages ORDER BY submitted_at DESC, id DESC`

func (q *Queries) ListMessages(ctx context.Context) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx, listMessages)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Message{}
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.ProjectDescription,
			&i.ContactInfo,
			&i.SubmittedAt,
		); err != nil {
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

const deleteMessage = `-- name: DeleteMessage :execrows
DELETE FROM messages WHERE id = ?`

func (q *Queries) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
