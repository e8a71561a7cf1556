// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"log/slog"
)

// ErrInvalidCredentials is returned when a username or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the single configured admin identity. Exactly one of
// password or passwordHash is set.
type Credentials struct {
	username     string
	password     string
	passwordHash string
}

// NewCredentials creates the admin identity. A non-empty passwordHash takes
// precedence over password and must be an argon2id hash.
func NewCredentials(username, password, passwordHash string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	if passwordHash != "" {
		if err := ValidateHash(passwordHash); err != nil {
			return nil, err
		}
		if NeedsRehash(passwordHash) {
			slog.Warn("admin password hash uses outdated argon2 parameters; regenerate it with `folio hash-password`")
		}
		return &Credentials{username: username, passwordHash: passwordHash}, nil
	}
	if password == "" {
		return nil, errors.New("admin password is required")
	}
	return &Credentials{username: username, password: password}, nil
}

// Username returns the admin username.
func (c *Credentials) Username() string {
	return c.username
}

// Check returns nil when username and password both match. The password is
// checked even when the username is wrong so both failures take the same time.
func (c *Credentials) Check(username, password string) error {
	userOK := equalConstantTime(username, c.username)

	var passOK bool
	if c.passwordHash != "" {
		ok, err := CheckPassword(password, c.passwordHash)
		if err != nil {
			return err
		}
		passOK = ok
	} else {
		passOK = equalConstantTime(password, c.password)
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// equalConstantTime compares digests so the comparison does not leak length.
func equalConstantTime(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
