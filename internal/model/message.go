// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Message is a contact form submission. Messages are immutable once created.
type Message struct {
	ID                 int64     `json:"id"`
	ProjectDescription string    `json:"project_description"`
	ContactInfo        string    `json:"contact_info"`
	SubmittedAt        time.Time `json:"submitted_at"`
}
