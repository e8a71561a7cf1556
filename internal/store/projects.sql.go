// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

const projectColumns = `id, slug, title, COALESCE(year, ''), COALESCE(blurb, ''), tags,
COALESCE(thumbnail, ''), images, COALESCE(outcome, ''), COALESCE(challenge, ''),
COALESCE(solution, ''), content`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.Title,
		&i.Year,
		&i.Blurb,
		&i.Tags,
		&i.Thumbnail,
		&i.Images,
		&i.Outcome,
		&i.Challenge,
		&i.Solution,
		&i.Content,
	)
	return i, err
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM projects ORDER BY year DESC, id DESC`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Project{}
	for rows.Next() {
		i, err := scanProject(rows)
		if err != nil {
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

const getProjectBySlug = `-- name: GetProjectBySlug :one
SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectBySlug, slug))
}

const getProjectByID = `-- name: GetProjectByID :one
SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

func (q *Queries) GetProjectByID(ctx context.Context, id int64) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectByID, id))
}

type ProjectParams struct {
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

const createProject = `-- name: CreateProject :execlastid
INSERT INTO projects (slug, title, year, blurb, tags, thumbnail, images, outcome, challenge, solution, content)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateProject inserts a project and returns its id.
func (q *Queries) CreateProject(ctx context.Context, arg ProjectParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createProject,
		arg.Slug,
		arg.Title,
		arg.Year,
		arg.Blurb,
		arg.Tags,
		arg.Thumbnail,
		arg.Images,
		arg.Outcome,
		arg.Challenge,
		arg.Solution,
		arg.Content,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const updateProject = `-- name: UpdateProject :execrows
UPDATE projects SET slug = ?, title = ?, year = ?, blurb = ?, tags = ?, thumbnail = ?,
images = ?, outcome = ?, challenge = ?, solution = ?, content = ?
WHERE id = ?`

// UpdateProject replaces every column of a project and returns the number of rows changed.
func (q *Queries) UpdateProject(ctx context.Context, id int64, arg ProjectParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateProject,
		arg.Slug,
		arg.Title,
		arg.Year,
		arg.Blurb,
		arg.Tags,
		arg.Thumbnail,
		arg.Images,
		arg.Outcome,
		arg.Challenge,
		arg.Solution,
		arg.Content,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM projects WHERE id = ?`

func (q *Queries) DeleteProject(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countProjectsBySlug = `-- name: CountProjectsBySlug :one
SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`

// CountProjectsBySlug counts projects using slug, ignoring excludeID.
func (q *Queries) CountProjectsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countProjectsBySlug, slug, excludeID).Scan(&count)
	return count, err
}

// ListProjectsByIDs returns the projects with the given ids in the order of ids.
// Unknown ids are skipped.
func (q *Queries) ListProjectsByIDs(ctx context.Context, ids []int64) ([]Project, error) {
	if len(ids) == 0 {
		return []Project{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]Project, len(ids))
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]Project, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}
