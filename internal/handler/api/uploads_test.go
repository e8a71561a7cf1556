// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadPart struct {
	field string
	name  string
	data  string
}

func (e *testEnv) upload(parts []uploadPart, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.name)
		require.NoError(e.t, err)
		_, err = io.WriteString(fw, p.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUpload_ThreeFiles(t *testing.T) {
	env := newTestEnv(t)

	parts := []uploadPart{
		{UploadField, "one.jpg", "first"},
		{UploadField, "two.png", "second"},
		{UploadField, "three.PDF", "third"},
	}
	w := env.upload(parts, env.session())
	assertStatusCode(t, w, http.StatusOK)

	var resp UploadResponse
	decode(t, w, &resp)
	assert.Equal(t, "Files uploaded successfully", resp.Message)
	require.Len(t, resp.Paths, 3)

	pattern := regexp.MustCompile(`^/uploads/images-\d+-\d+\.(jpg|png|pdf)$`)
	for i, p := range resp.Paths {
		assert.Regexp(t, pattern, p)

		// Every path resolves to the uploaded bytes.
		fw := env.do(http.MethodGet, p, nil)
		assertStatusCode(t, fw, http.StatusOK)
		assert.Equal(t, parts[i].data, fw.Body.String())
		assert.Contains(t, fw.Header().Get("Cache-Control"), "max-age=")
	}
}

func TestUpload_Rejections(t *testing.T) {
	env := newTestEnv(t, withMaxFiles(2))

	tooMany := make([]uploadPart, 3)
	for i := range tooMany {
		tooMany[i] = uploadPart{UploadField, fmt.Sprintf("f%d.txt", i), "x"}
	}

	tests := []struct {
		name  string
		parts []uploadPart
	}{
		{"no files", nil},
		{"too many files", tooMany},
		{"unexpected field", []uploadPart{{"avatar", "a.png", "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.upload(tt.parts, env.session())
			assertStatusCode(t, w, http.StatusBadRequest)
			assert.NotEmpty(t, messageOf(t, w))
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	env := newTestEnv(t)

	w := env.admin(http.MethodPost, "/api/upload", map[string]string{"images": "nope"})
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestUploads_NoDirectoryListing(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/uploads/", "/uploads/thumbs", "/uploads/missing.png"} {
		w := env.do(http.MethodGet, path, nil)
		assertStatusCode(t, w, http.StatusNotFound)
	}
}
