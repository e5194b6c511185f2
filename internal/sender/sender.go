// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package sender extracts comparable identities from free-form From headers.
package sender

import (
	"net/mail"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Address returns the bare email address in a From header such as
// `"Display Name" <user@host>` or `user@host`. It returns "" when no usable
// address can be found.
func Address(from string) string {
	from = strings.TrimSpace(from)
	if from == "" {
		return ""
	}

	addr := ""
	if parsed, err := mail.ParseAddress(from); err == nil {
		addr = parsed.Address
	} else {
		addr = fallbackAddress(from)
	}

	local, host, ok := splitAddress(addr)
	if !ok {
		return ""
	}
	return local + "@" + host
}

// Domain returns the registrable domain (public suffix plus one label) of
// the sender address, or "" when the header has no usable address. The
// public suffix list is compiled in, so no network access happens.
func Domain(from string) string {
	addr := Address(from)
	if addr == "" {
		return ""
	}
	_, host, _ := splitAddress(addr)
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

// fallbackAddress handles headers net/mail rejects: it prefers the last
// angle-bracketed part, then the last whitespace-separated token with an @.
func fallbackAddress(from string) string {
	if open := strings.LastIndex(from, "<"); open >= 0 {
		if end := strings.Index(from[open:], ">"); end > 0 {
			return strings.TrimSpace(from[open+1 : open+end])
		}
	}
	fields := strings.Fields(from)
	for i := len(fields) - 1; i >= 0; i-- {
		if strings.Contains(fields[i], "@") {
			return strings.Trim(fields[i], `<>"',;()`)
		}
	}
	return ""
}

func splitAddress(addr string) (local, host string, ok bool) {
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return "", "", false
	}
	local, host = addr[:at], addr[at+1:]
	if strings.ContainsAny(host, " \t<>") {
		return "", "", false
	}
	return local, host, true
}
