// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
)

func newSweepCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep-uploads",
		Short: "Remove uploaded files that no content references",
		Long: "Remove files in the upload directory that no project, post or page references\n" +
			"and that are older than FOLIO_SWEEP_GRACE, together with their thumbnails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			sweeper := service.NewSweeper(store.New(db), cfg.UploadsDir, cfg.SweepGrace, logger)
			res, err := sweeper.Sweep(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "removed"
			if dryRun {
				verb = "would remove"
			}
			for _, name := range res.Removed {
				_, _ = fmt.Fprintf(out, "%s %s\n", verb, name)
			}
			_, _ = fmt.Fprintf(out, "%d files scanned, %d %s\n", res.Scanned, len(res.Removed), verb)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list files without removing them")
	return cmd
}
