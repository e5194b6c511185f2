// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package redact strips personal data from strings before they appear in
// logs or error messages.
package redact

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[\p{L}\p{N}._%+\-]+@[\p{L}\p{N}.\-]+`)

// Email masks the local part of an address, keeping its first character:
// "helpdesk@corp.com" becomes "h***@corp.com". Values without '@' are
// returned unchanged.
func Email(addr string) string {
	local, host, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return addr
	}
	first := []rune(local)[0]
	return string(first) + "***@" + host
}

// String masks every email address found in s.
func String(s string) string {
	return emailPattern.ReplaceAllStringFunc(s, Email)
}
