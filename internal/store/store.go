// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package store defines how previously recorded incidents are fetched and
// provides a file-backed implementation.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davetashner/phishdedup/internal/incident"
)

// Store returns the incidents matching a query.
type Store interface {
	Query(ctx context.Context, q Query) ([]incident.Record, error)
}

// DefaultLimit caps how many incidents a query returns.
const DefaultLimit = 1000

// DefaultTypeField is the record key holding the incident type.
const DefaultTypeField = "type"

// StatusScope selects incidents by closed state.
type StatusScope int

const (
	// All ignores the status field.
	All StatusScope = iota
	// ClosedOnly keeps incidents whose status is closed.
	ClosedOnly
	// NonClosedOnly keeps incidents whose status is anything but closed.
	NonClosedOnly
)

var scopeNames = map[StatusScope]string{
	All:           "All",
	ClosedOnly:    "ClosedOnly",
	NonClosedOnly: "NonClosedOnly",
}

func (s StatusScope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StatusScope(%d)", int(s))
}

// ParseStatusScope parses All, ClosedOnly or NonClosedOnly.
func ParseStatusScope(s string) (StatusScope, error) {
	for scope, name := range scopeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return scope, nil
		}
	}
	return All, fmt.Errorf("unsupported status scope %q (valid: All, ClosedOnly, NonClosedOnly)", s)
}

// Query describes which historical incidents to fetch.
type Query struct {
	Scope StatusScope
	// IncidentType restricts results by type; comma-separated values match
	// any of them. Empty means every type.
	IncidentType string
	TypeField    string
	// From is the lower bound on creation time; zero means unbounded.
	From     time.Time
	Limit    int
	Fragment string
}

// String renders the query text sent to a case-management backend, for
// example "(status:closed) and (type:Phishing)".
func (q Query) String() string {
	var parts []string
	if f := strings.TrimSpace(q.Fragment); f != "" {
		parts = append(parts, f)
	}
	switch q.Scope {
	case ClosedOnly:
		parts = append(parts, "status:closed")
	case NonClosedOnly:
		parts = append(parts, "-status:closed")
	}
	if q.IncidentType != "" {
		parts = append(parts, q.typeField()+":"+q.IncidentType)
	}

	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return strings.Join(parts, " and ")
}

func (q Query) typeField() string {
	if q.TypeField == "" {
		return DefaultTypeField
	}
	return q.TypeField
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}
