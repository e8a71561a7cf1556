// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/testutil"
)

type staticRefs []string

func (r staticRefs) ListUploadReferences(context.Context) ([]string, error) {
	return r, nil
}

type failingRefs struct{}

func (failingRefs) ListUploadReferences(context.Context) ([]string, error) {
	return nil, errors.New("database is closed")
}

var sweepNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func writeUpload(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newTestSweeper(refs ReferenceLister, dir string) *Sweeper {
	s := NewSweeper(refs, dir, 24*time.Hour, testutil.TestLogger())
	s.now = func() time.Time { return sweepNow }
	return s
}

func TestSweeper_Sweep(t *testing.T) {
	dir := t.TempDir()
	old := sweepNow.Add(-48 * time.Hour)

	writeUpload(t, filepath.Join(dir, "kept.png"), old)
	writeUpload(t, filepath.Join(dir, "orphan.png"), old)
	writeUpload(t, filepath.Join(dir, "fresh.png"), sweepNow.Add(-time.Hour))
	writeUpload(t, filepath.Join(dir, ".gitkeep"), old)
	writeUpload(t, filepath.Join(dir, ThumbsDir, "kept.png"), old)
	writeUpload(t, filepath.Join(dir, ThumbsDir, "orphan.png"), old)
	writeUpload(t, filepath.Join(dir, ThumbsDir, "gone.png"), old)

	refs := staticRefs{`[{"title":"x","body":"see ![a](/uploads/kept.png)","imageUrl":""}]`}
	s := newTestSweeper(refs, dir)

	t.Run("dry run", func(t *testing.T) {
		res, err := s.Sweep(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, res.DryRun)
		assert.Equal(t, 3, res.Scanned)
		assert.Equal(t, []string{"orphan.png"}, res.Removed)
		assert.True(t, exists(filepath.Join(dir, "orphan.png")))
		assert.True(t, exists(filepath.Join(dir, ThumbsDir, "gone.png")))
	})

	t.Run("remove", func(t *testing.T) {
		res, err := s.Sweep(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, []string{"orphan.png"}, res.Removed)

		assert.True(t, exists(filepath.Join(dir, "kept.png")))
		assert.True(t, exists(filepath.Join(dir, "fresh.png")))
		assert.True(t, exists(filepath.Join(dir, ".gitkeep")))
		assert.True(t, exists(filepath.Join(dir, ThumbsDir, "kept.png")))

		assert.False(t, exists(filepath.Join(dir, "orphan.png")))
		assert.False(t, exists(filepath.Join(dir, ThumbsDir, "orphan.png")))
		assert.False(t, exists(filepath.Join(dir, ThumbsDir, "gone.png")))
	})
}

func TestSweeper_SweepDatabaseReferences(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	_, err := q.CreateProject(ctx, store.ProjectParams{
		Slug:      "bridge",
		Title:     "Bridge",
		Thumbnail: "/uploads/thumb.jpg",
		Images:    model.List[string]{"/uploads/gallery.jpg"},
		Content:   model.List[model.Section]{{Title: "Intro", ImageURL: "/uploads/section.jpg"}},
	})
	require.NoError(t, err)

	_, err = q.CreateBlogPost(ctx, store.BlogPostParams{
		Slug:    "notes",
		Title:   "Notes",
		Content: model.List[model.Section]{{Body: "![x](/uploads/thumbs/post.jpg)"}},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	old := sweepNow.Add(-72 * time.Hour)
	for _, name := range []string{"thumb.jpg", "gallery.jpg", "section.jpg", "post.jpg", "unused.jpg"} {
		writeUpload(t, filepath.Join(dir, name), old)
	}

	res, err := newTestSweeper(q, dir).Sweep(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Scanned)
	assert.Equal(t, []string{"unused.jpg"}, res.Removed)
	assert.False(t, exists(filepath.Join(dir, "unused.jpg")))
	assert.True(t, exists(filepath.Join(dir, "post.jpg")))
}

func TestSweeper_SweepErrors(t *testing.T) {
	_, err := newTestSweeper(failingRefs{}, t.TempDir()).Sweep(context.Background(), false)
	assert.Error(t, err)

	_, err = newTestSweeper(staticRefs{}, filepath.Join(t.TempDir(), "missing")).Sweep(context.Background(), false)
	assert.Error(t, err)
}

func TestSweeper_StartStop(t *testing.T) {
	s := newTestSweeper(staticRefs{}, t.TempDir())

	assert.Error(t, s.Start("not a schedule"))

	require.NoError(t, s.Start("@every 1h"))
	s.Stop()

	// Stop without Start is a no-op.
	newTestSweeper(staticRefs{}, t.TempDir()).Stop()
}
