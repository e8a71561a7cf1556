// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/handler/api"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	slog.Info("starting folio", "version", version.Get().Version, "env", cfg.Env)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := seed(ctx, db, logger); err != nil {
		return err
	}
	slog.Info("database ready")

	creds, err := auth.NewCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("admin credentials: %w", err)
	}

	uploads := service.NewUploadService(cfg.UploadsDir, cfg.ThumbnailWidth, logger)
	if err := uploads.EnsureDirs(); err != nil {
		return err
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	if cfg.SweepEnabled() {
		sweeper := service.NewSweeper(store.New(db), cfg.UploadsDir, cfg.SweepGrace, logger)
		if err := sweeper.Start(cfg.SweepSchedule); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	slog.Info("admin login enabled", "username", creds.Username(), "session_ttl", issuer.TTL())

	h := api.NewHandler(api.Deps{
		DB:             db,
		Issuer:         issuer,
		Credentials:    creds,
		Cookie:         middleware.SessionCookie{Secure: !cfg.IsDevelopment()},
		Login:          loginProtection,
		Uploads:        uploads,
		Logger:         logger,
		UploadMaxFiles: cfg.UploadMaxFiles,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})

	csrfKey := sha256.Sum256([]byte("folio-csrf:" + cfg.JWTSecret))
	router := api.NewRouter(h, api.RouterConfig{
		Logger:           logger,
		IsDevelopment:    cfg.IsDevelopment(),
		CORSOrigins:      cfg.CORSOrigins,
		CSRFKey:          csrfKey[:],
		TrustedOrigins:   cfg.TrustedOriginHosts(),
		MessageRateLimit: cfg.MessageRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
