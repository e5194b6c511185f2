// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package incident defines the raw and normalized incident types shared by
// the dedup pipeline.
package incident

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CustomFieldsKey is the key under which backends nest custom incident fields.
const CustomFieldsKey = "CustomFields"

// Standard record keys.
const (
	KeyID      = "id"
	KeyCreated = "created"
	KeyStatus  = "status"
)

// Record is a raw incident as returned by an incident store. Values are
// whatever the JSON decoder produced: strings, json.Number or float64,
// bools, nested maps, slices, or nil.
type Record map[string]any

// Flatten returns a copy of the record with its custom fields merged into the
// top level. A nested key is copied only when the top level does not already
// carry it. The custom fields key itself is dropped from the result.
func (r Record) Flatten() Record {
	flat := make(Record, len(r))
	for k, v := range r {
		if k == CustomFieldsKey {
			continue
		}
		flat[k] = v
	}

	nested, ok := r[CustomFieldsKey].(map[string]any)
	if !ok {
		return flat
	}
	for k, v := range nested {
		if _, exists := r[k]; exists {
			continue
		}
		flat[k] = v
	}
	return flat
}

// Has reports whether key is present at the top level or in custom fields.
func (r Record) Has(key string) bool {
	if _, ok := r[key]; ok {
		return true
	}
	nested, ok := r[CustomFieldsKey].(map[string]any)
	if !ok {
		return false
	}
	_, ok = nested[key]
	return ok
}

// Field looks up key at the top level only and classifies the value.
// Callers that need custom fields should Flatten first.
func (r Record) Field(key string) TextField {
	v, ok := r[key]
	if !ok {
		return TextField{Kind: FieldAbsent}
	}
	return classify(v)
}

// ID returns the incident identifier as a string. JSON numbers are rendered
// in their shortest exact form.
func (r Record) ID() (string, error) {
	v, ok := r[KeyID]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %q", KeyID)
	}
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("empty %q", KeyID)
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(id), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	default:
		return "", fmt.Errorf("unsupported %q type %T", KeyID, v)
	}
}

// Created parses the record's creation timestamp.
func (r Record) Created() (time.Time, error) {
	v, ok := r[KeyCreated]
	if !ok || v == nil {
		return time.Time{}, fmt.Errorf("missing %q", KeyCreated)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported %q type %T", KeyCreated, v)
	}
	return ParseTimestamp(s)
}
