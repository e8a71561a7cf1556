// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// List is a JSON-encoded list column. Values are stringified on every write
// and parsed on every read, so a NULL or empty column reads back as an empty list.
type List[T any] []T

// Scan implements sql.Scanner.
func (l *List[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = List[T]{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("scanning JSON list: unsupported type %T", src)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = List[T]{}
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("scanning JSON list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	*l = items
	return nil
}

// Value implements driver.Valuer.
func (l List[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("encoding JSON list: %w", err)
	}
	return string(data), nil
}

// MarshalJSON encodes a nil list as [] instead of null.
func (l List[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}
