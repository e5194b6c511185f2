// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultLookback is how far back candidates are fetched by default.
const DefaultLookback = "100 days ago"

const day = 24 * time.Hour

// Lookback is a window reaching back from the time of a check.
type Lookback time.Duration

var agoPattern = regexp.MustCompile(`(?i)^(\d+)\s*(minute|hour|day|week|month|year)s?\s+ago$`)

var agoUnits = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    day,
	"week":   7 * day,
	"month":  30 * day,
	"year":   365 * day,
}

// ParseLookback parses "90d", "2w", "6m", "1y" or "N <unit>s ago" forms.
// Months are 30 days and years 365. An empty string means no lookback.
func ParseLookback(s string) (Lookback, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if m := agoPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid lookback number: %q", s)
		}
		return scale(s, n, agoUnits[strings.ToLower(m[2])])
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid lookback: %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid lookback number: %q", s)
	}
	switch s[len(s)-1] {
	case 'd':
		return scale(s, n, day)
	case 'w':
		return scale(s, n, 7*day)
	case 'm':
		return scale(s, n, 30*day)
	case 'y':
		return scale(s, n, 365*day)
	default:
		return 0, fmt.Errorf("invalid lookback unit %q in %q (use d/w/m/y or \"N days ago\")", s[len(s)-1:], s)
	}
}

// scale multiplies n by unit, rejecting windows that do not fit a Duration.
func scale(s string, n int, unit time.Duration) (Lookback, error) {
	if int64(n) > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("lookback too large: %q", s)
	}
	return Lookback(time.Duration(n) * unit), nil
}

// Since returns the start of the window ending at now, or the zero time when
// the lookback is unbounded.
func (l Lookback) Since(now time.Time) time.Time {
	if l <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(l))
}
