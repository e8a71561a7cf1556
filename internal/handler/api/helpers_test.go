// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/testutil"
)

const (
	testSecret   = "Test-secret-key-32-bytes-long!!!"
	testUsername = "sam"
	testPassword = "correct horse"
)

// testEnv is a complete API backed by a temporary database and upload dir.
type testEnv struct {
	t          *testing.T
	db         *sql.DB
	handler    *Handler
	router     http.Handler
	issuer     *auth.TokenIssuer
	uploadsDir string
}

type envOption func(*Deps, *RouterConfig)

func withMessageRateLimit(n int) envOption {
	return func(_ *Deps, cfg *RouterConfig) { cfg.MessageRateLimit = n }
}

func withMaxFiles(n int) envOption {
	return func(d *Deps, _ *RouterConfig) { d.UploadMaxFiles = n }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	issuer := auth.NewTokenIssuer(testSecret, 8*time.Hour)

	creds, err := auth.NewCredentials(testUsername, testPassword, "")
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}

	login := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(login.Close)

	dir := t.TempDir()
	uploads := service.NewUploadService(dir, 0, testutil.TestLogger())
	if err := uploads.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}

	deps := Deps{
		DB:             db,
		Issuer:         issuer,
		Credentials:    creds,
		Cookie:         middleware.SessionCookie{},
		Login:          login,
		Uploads:        uploads,
		Logger:         testutil.TestLogger(),
		UploadMaxFiles: 10,
		UploadMaxBytes: 10 << 20,
	}
	cfg := RouterConfig{
		Logger:         testutil.TestLogger(),
		IsDevelopment:  true,
		CORSOrigins:    []string{"http://localhost:3000"},
		CSRFKey:        []byte(testSecret),
		TrustedOrigins: []string{"localhost:3000"},
	}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	h := NewHandler(deps)
	return &testEnv{
		t:          t,
		db:         db,
		handler:    h,
		router:     NewRouter(h, cfg),
		issuer:     issuer,
		uploadsDir: dir,
	}
}

// session returns a valid session cookie for the admin.
func (e *testEnv) session() *http.Cookie {
	e.t.Helper()
	token, _, err := e.issuer.Issue(testUsername)
	if err != nil {
		e.t.Fatalf("Issue: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

// do sends a request through the router. body is JSON-encoded unless it is
// an io.Reader or nil.
func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("encoding body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// admin sends a request with a valid session.
func (e *testEnv) admin(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do(method, path, body, e.session())
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d (body: %s)", expected, w.Code, w.Body.String())
	}
}

// decode unmarshals the response body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}

// messageOf returns the "message" field of the response.
func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp MessageResponse
	decode(t, w, &resp)
	return resp.Message
}

// createdID returns the id of a 201 create response.
func createdID(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	assertStatusCode(t, w, http.StatusCreated)
	var resp CreatedResponse
	decode(t, w, &resp)
	if resp.Data.ID <= 0 {
		t.Fatalf("created id = %d", resp.Data.ID)
	}
	return resp.Data.ID
}

// sessionCookieOf returns the session cookie set by the response, or nil.
func sessionCookieOf(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}
