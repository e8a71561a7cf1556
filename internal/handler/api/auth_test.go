// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/middleware"
)

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/login", LoginRequest{Username: testUsername, Password: testPassword})
	assertStatusCode(t, w, http.StatusOK)

	var resp AuthResponse
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Logged in successfully", resp.Message)

	cookie := sessionCookieOf(w)
	require.NotNil(t, cookie, "login should set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	// The issued cookie passes the session check.
	w = env.do(http.MethodGet, "/api/verify", nil, cookie)
	assertStatusCode(t, w, http.StatusOK)
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Token is valid", resp.Message)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Username: testUsername, Password: "nope"}},
		{"wrong username", LoginRequest{Username: "root", Password: testPassword}},
		{"empty", LoginRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(http.MethodPost, "/api/login", tt.req)
			assertStatusCode(t, w, http.StatusUnauthorized)

			var resp AuthResponse
			decode(t, w, &resp)
			assert.False(t, resp.Success)
			assert.Equal(t, "Invalid credentials", resp.Message)
			assert.Nil(t, sessionCookieOf(w), "failed login must not set a cookie")
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/login", "{not json")
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestLogin_LockoutAfterFailures(t *testing.T) {
	env := newTestEnv(t)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	})
	t.Cleanup(lp.Close)
	env.handler.login = lp

	bad := LoginRequest{Username: testUsername, Password: "nope"}
	for i := 0; i < 3; i++ {
		w := env.do(http.MethodPost, "/api/login", bad)
		assertStatusCode(t, w, http.StatusUnauthorized)
	}

	// Locked even with the right password.
	w := env.do(http.MethodPost, "/api/login", LoginRequest{Username: testUsername, Password: testPassword})
	assertStatusCode(t, w, http.StatusTooManyRequests)
	assert.True(t, strings.HasPrefix(messageOf(t, w), "Too many failed attempts"))
	assert.Nil(t, sessionCookieOf(w))
}

func TestLogin_LockoutIsPerClient(t *testing.T) {
	env := newTestEnv(t)
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	})
	t.Cleanup(lp.Close)
	env.handler.login = lp

	login := func(ip string, body LoginRequest) *httptest.ResponseRecorder {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	bad := LoginRequest{Username: testUsername, Password: "nope"}
	for i := 0; i < 3; i++ {
		assertStatusCode(t, login("203.0.113.7", bad), http.StatusUnauthorized)
	}
	assertStatusCode(t, login("203.0.113.7", LoginRequest{Username: testUsername, Password: testPassword}), http.StatusTooManyRequests)

	// The admin on another address is unaffected.
	w := login("198.51.100.2", LoginRequest{Username: testUsername, Password: testPassword})
	assertStatusCode(t, w, http.StatusOK)
	assert.NotNil(t, sessionCookieOf(w))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/logout", nil, env.session())
	assertStatusCode(t, w, http.StatusOK)

	var resp AuthResponse
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Logged out", resp.Message)

	cookie := sessionCookieOf(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

var protectedRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/verify"},
	{http.MethodGet, "/api/projects/1"},
	{http.MethodPost, "/api/projects"},
	{http.MethodPut, "/api/projects/1"},
	{http.MethodDelete, "/api/projects/1"},
	{http.MethodGet, "/api/posts/1"},
	{http.MethodPost, "/api/posts"},
	{http.MethodPut, "/api/posts/1"},
	{http.MethodDelete, "/api/posts/1"},
	{http.MethodGet, "/api/pages"},
	{http.MethodPut, "/api/pages/home"},
	{http.MethodPatch, "/api/pages/home"},
	{http.MethodGet, "/api/messages"},
	{http.MethodDelete, "/api/messages/1"},
	{http.MethodPost, "/api/upload"},
}

func TestProtectedRoutes_RejectBadSessions(t *testing.T) {
	env := newTestEnv(t)

	expired, _, err := env.issuer.
		WithClock(func() time.Time { return time.Now().Add(-9 * time.Hour) }).
		Issue(testUsername)
	require.NoError(t, err)

	// Replace the first signature character, which carries six full bits.
	parts := strings.Split(env.session().Value, ".")
	require.Len(t, parts, 3)
	first := "A"
	if strings.HasPrefix(parts[2], "A") {
		first = "B"
	}
	tampered := parts[0] + "." + parts[1] + "." + first + parts[2][1:]

	cases := []struct {
		name    string
		cookie  *http.Cookie
		message string
	}{
		{"missing", nil, middleware.MsgNoToken},
		{"expired", &http.Cookie{Name: middleware.SessionCookieName, Value: expired}, middleware.MsgInvalidToken},
		{"tampered", &http.Cookie{Name: middleware.SessionCookieName, Value: tampered}, middleware.MsgInvalidToken},
		{"garbage", &http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"}, middleware.MsgInvalidToken},
	}

	for _, c := range cases {
		for _, route := range protectedRoutes {
			t.Run(c.name+" "+route.method+" "+route.path, func(t *testing.T) {
				var cookies []*http.Cookie
				if c.cookie != nil {
					cookies = append(cookies, c.cookie)
				}
				w := env.do(route.method, route.path, nil, cookies...)

				assertStatusCode(t, w, http.StatusUnauthorized)
				assert.Equal(t, c.message, messageOf(t, w))

				cleared := sessionCookieOf(w)
				require.NotNil(t, cleared, "401 should clear the cookie")
				assert.Empty(t, cleared.Value)
			})
		}
	}
}
