// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	logger.InfoContext(ctx, "project created", "id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record %q: %v", buf.String(), err)
	}
	if rec["msg"] != "project created" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", rec["request_id"])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record should be written")
	}
	if strings.Contains(out, "request_id") {
		t.Error("records without a request context should not carry request_id")
	}
}

func TestRequestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "text").With("component", "sweeper").WithGroup("g")

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "abc")
	logger.InfoContext(ctx, "run", "n", 1)

	out := buf.String()
	if !strings.Contains(out, "component=sweeper") || !strings.Contains(out, "g.n=1") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "request_id=abc") {
		t.Errorf("output = %q, want request_id", out)
	}
}
