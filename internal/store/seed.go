// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/folio/internal/model"
)

// Seed creates the fixed pages. Pages that already exist keep their content.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := New(db).WithTx(tx)
	var created []string

	for _, page := range model.DefaultPages() {
		content, err := model.EncodePageContent(page.Content)
		if err != nil {
			return fmt.Errorf("encoding %s page: %w", page.Slug, err)
		}

		n, err := queries.InsertPageIfAbsent(ctx, page.Slug, page.Title, content)
		if err != nil {
			return fmt.Errorf("seeding %s page: %w", page.Slug, err)
		}
		if n > 0 {
			created = append(created, page.Slug)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	for _, slug := range created {
		logger.InfoContext(ctx, "created default page", "slug", slug)
	}
	return nil
}
