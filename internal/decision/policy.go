// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package decision picks the closest surviving candidate and classifies it
// against the similarity threshold.
package decision

import (
	"fmt"
	"strings"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/similarity"
)

// SenderPolicy restricts which candidates may be considered duplicates
// based on who sent them.
type SenderPolicy int

const (
	// TextOnly ignores the sender.
	TextOnly SenderPolicy = iota
	// Exact requires an identical, non-empty sender string.
	Exact
	// Domain requires an identical, non-empty registrable sender domain.
	Domain
)

var policyNames = map[SenderPolicy]string{
	TextOnly: "TextOnly",
	Exact:    "Exact",
	Domain:   "Domain",
}

func (p SenderPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SenderPolicy(%d)", int(p))
}

// ParseSenderPolicy parses a policy name case-insensitively.
func ParseSenderPolicy(s string) (SenderPolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return p, nil
		}
	}
	return TextOnly, fmt.Errorf("unknown sender policy %q (valid: TextOnly, Exact, Domain)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p SenderPolicy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, fmt.Errorf("unknown sender policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SenderPolicy) UnmarshalText(b []byte) error {
	parsed, err := ParseSenderPolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Filter keeps the results whose candidate satisfies policy relative to
// current. An empty sender or domain never matches, not even another empty
// one.
func Filter(current incident.Normalized, results []similarity.Result, policy SenderPolicy) []similarity.Result {
	var key func(incident.Normalized) string
	switch policy {
	case Exact:
		key = func(n incident.Normalized) string { return n.Sender }
	case Domain:
		key = func(n incident.Normalized) string { return n.SenderDomain }
	default:
		return results
	}

	want := key(current)
	out := make([]similarity.Result, 0, len(results))
	for _, r := range results {
		got := key(r.Candidate)
		if got != "" && got == want {
			out = append(out, r)
		}
	}
	return out
}
