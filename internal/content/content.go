// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content edits and inspects stored JSON documents by path.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Patch operations.
const (
	OpSet    = "set"
	OpDelete = "delete"
)

var (
	// ErrInvalidOp is returned for malformed patch operations.
	ErrInvalidOp = errors.New("invalid patch operation")
	// ErrNotContainer is returned when patching a document that is not an object or array.
	ErrNotContainer = errors.New("document is not an object or array")
)

// PatchOp changes one node of a document. Path uses dotted keys with numeric
// array indexes ("experiences.0.role"); "-1" as the last element appends.
type PatchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Apply runs ops against doc in order and returns the new document. doc is
// not modified. The first failing operation aborts the whole patch.
func Apply(doc []byte, ops []PatchOp) ([]byte, error) {
	root := gjson.ParseBytes(doc)
	if !gjson.ValidBytes(doc) || !(root.IsObject() || root.IsArray()) {
		return nil, ErrNotContainer
	}

	out := append([]byte(nil), doc...)
	for i, op := range ops {
		if op.Path == "" || strings.ContainsAny(op.Path, "*?#|@") {
			return nil, fmt.Errorf("%w %d: bad path %q", ErrInvalidOp, i, op.Path)
		}

		var err error
		switch op.Op {
		case OpSet:
			if len(op.Value) == 0 || !json.Valid(op.Value) {
				return nil, fmt.Errorf("%w %d: value must be JSON", ErrInvalidOp, i)
			}
			out, err = sjson.SetRawBytes(out, op.Path, op.Value)
		case OpDelete:
			out, err = sjson.DeleteBytes(out, op.Path)
		default:
			return nil, fmt.Errorf("%w %d: unknown op %q", ErrInvalidOp, i, op.Op)
		}
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidOp, i, err)
		}
	}
	return out, nil
}

// SelectedProjectIDs returns the project ids listed at work.selectedProjects
// of a home page document. Numeric strings are accepted; other values are
// skipped.
func SelectedProjectIDs(doc string) []int64 {
	var ids []int64
	for _, v := range gjson.Get(doc, "work.selectedProjects").Array() {
		switch v.Type {
		case gjson.Number:
			ids = append(ids, v.Int())
		case gjson.String:
			if id, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

var uploadRef = regexp.MustCompile(`/uploads/(?:thumbs/)?([A-Za-z0-9][A-Za-z0-9._-]*)`)

// UploadRefs returns the names of uploaded files referenced anywhere in text.
// text may hold several newline-separated values; JSON values are walked and
// every string inside them is searched, other lines are searched as is.
func UploadRefs(text string) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		if gjson.Valid(line) {
			walkStrings(gjson.Parse(line), func(s string) { collectRefs(s, refs) })
			continue
		}
		collectRefs(line, refs)
	}
	return refs
}

func walkStrings(v gjson.Result, fn func(string)) {
	switch {
	case v.IsObject() || v.IsArray():
		v.ForEach(func(_, child gjson.Result) bool {
			walkStrings(child, fn)
			return true
		})
	case v.Type == gjson.String:
		fn(v.Str)
	}
}

func collectRefs(s string, refs map[string]struct{}) {
	for _, m := range uploadRef.FindAllStringSubmatch(s, -1) {
		refs[m[1]] = struct{}{}
	}
}
