// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/folio/internal/content"
	"github.com/olegiv/folio/internal/store"
)

// sweepTimeout bounds one scheduled sweep.
const sweepTimeout = 5 * time.Minute

// ReferenceLister returns the stored text of every column that may reference
// an upload.
type ReferenceLister interface {
	ListUploadReferences(ctx context.Context) ([]string, error)
}

var _ ReferenceLister = (*store.Queries)(nil)

// SweepResult reports one sweep.
type SweepResult struct {
	Scanned int
	Removed []string // file names, sorted
	DryRun  bool
}

// Sweeper removes uploaded files that no project, post or page references.
type Sweeper struct {
	refs   ReferenceLister
	dir    string
	grace  time.Duration
	logger *slog.Logger
	now    func() time.Time
	cron   *cron.Cron
}

// NewSweeper creates a sweeper for dir. Files younger than grace are kept so
// uploads whose row has not been saved yet survive.
func NewSweeper(refs ReferenceLister, dir string, grace time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		refs:   refs,
		dir:    dir,
		grace:  grace,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep removes unreferenced files older than the grace period together with
// their thumbnails, and thumbnails whose original is gone. With dryRun nothing
// is removed.
func (s *Sweeper) Sweep(ctx context.Context, dryRun bool) (*SweepResult, error) {
	texts, err := s.refs.ListUploadReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing upload references: %w", err)
	}
	referenced := content.UploadRefs(strings.Join(texts, "\n"))

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	result := &SweepResult{DryRun: dryRun}
	cutoff := s.now().Add(-s.grace)
	originals := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		result.Scanned++

		name := e.Name()
		if _, ok := referenced[name]; ok {
			originals[name] = struct{}{}
			continue
		}

		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			originals[name] = struct{}{}
			continue
		}

		result.Removed = append(result.Removed, name)
		if dryRun {
			continue
		}
		if err := s.remove(filepath.Join(s.dir, name)); err != nil {
			return nil, err
		}
		if err := s.remove(filepath.Join(s.dir, ThumbsDir, name)); err != nil {
			return nil, err
		}
	}

	if !dryRun {
		if err := s.removeStrayThumbnails(originals); err != nil {
			return nil, err
		}
	}

	sort.Strings(result.Removed)
	s.logger.Info("upload sweep finished",
		"scanned", result.Scanned,
		"removed", len(result.Removed),
		"dry_run", dryRun,
	)
	return result, nil
}

func (s *Sweeper) removeStrayThumbnails(originals map[string]struct{}) error {
	thumbs := filepath.Join(s.dir, ThumbsDir)
	entries, err := os.ReadDir(thumbs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading thumbnail directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := originals[e.Name()]; ok {
			continue
		}
		if err := s.remove(filepath.Join(thumbs, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sweeper) remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Start runs Sweep on schedule (standard five-field cron syntax or
// descriptors such as "@daily").
func (s *Sweeper) Start(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.Sweep(ctx, false); err != nil {
			s.logger.Error("upload sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parsing sweep schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("upload sweeper started", "schedule", schedule, "grace", s.grace)
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
