// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the file handling behind the upload endpoint and the
// orphaned upload sweeper.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"time"

	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/util"
)

// UploadURLPrefix is the public path prefix of stored uploads.
const UploadURLPrefix = "/uploads/"

// ThumbsDir is the subdirectory of the upload directory holding thumbnails.
const ThumbsDir = "thumbs"

// maxThumbnailSource bounds the size of files read back for thumbnailing.
const maxThumbnailSource = 32 << 20

// UploadService stores uploaded files under a single directory.
type UploadService struct {
	dir    string
	thumbs *imaging.Thumbnailer
	logger *slog.Logger
	now    func() time.Time
	rand   func() int64
}

// NewUploadService creates a service writing to dir. A positive thumbWidth
// enables thumbnails.
func NewUploadService(dir string, thumbWidth int, logger *slog.Logger) *UploadService {
	s := &UploadService{
		dir:    dir,
		logger: logger,
		now:    time.Now,
		rand:   func() int64 { return rand.Int64N(1_000_000_000) },
	}
	if thumbWidth > 0 {
		s.thumbs = imaging.NewThumbnailer(thumbWidth)
	}
	return s
}

// Dir returns the upload directory.
func (s *UploadService) Dir() string {
	return s.dir
}

// EnsureDirs creates the upload and thumbnail directories.
func (s *UploadService) EnsureDirs() error {
	thumbs, err := util.SafeJoinPath(s.dir, ThumbsDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(thumbs, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	return nil
}

// StoredName returns the name a file is stored under:
// <field>-<unix millis>-<random>.<ext of the client filename>.
func (s *UploadService) StoredName(field, filename string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, s.now().UnixMilli(), s.rand(), util.SafeExtension(filename))
}

// Save writes every file to the upload directory and returns their public
// paths in order. Thumbnails are best effort and never fail the call.
func (s *UploadService) Save(ctx context.Context, field string, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, err := s.save(field, fh)
		if err != nil {
			return nil, err
		}
		s.thumbnail(name)
		paths = append(paths, path.Join(UploadURLPrefix, name))
	}
	return paths, nil
}

func (s *UploadService) save(field string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer func() { _ = src.Close() }()

	name := s.StoredName(field, fh.Filename)
	dst, err := util.SafeJoinPath(s.dir, name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return name, nil
}

func (s *UploadService) thumbnail(name string) {
	if s.thumbs == nil {
		return
	}

	src, err := util.SafeJoinPath(s.dir, name)
	if err != nil {
		return
	}
	info, err := os.Stat(src)
	if err != nil || info.Size() > maxThumbnailSource {
		return
	}
	data, err := os.ReadFile(src)
	if err != nil {
		s.logger.Warn("reading upload for thumbnail", "file", name, "error", err)
		return
	}

	dst, err := util.SafeJoinPath(s.dir, ThumbsDir, name)
	if err != nil {
		return
	}
	if err := s.thumbs.Thumbnail(data, dst); err != nil {
		if !errors.Is(err, imaging.ErrNotImage) {
			s.logger.Warn("creating thumbnail", "file", name, "error", err)
		}
		return
	}
	s.logger.Debug("thumbnail created", "file", name)
}
