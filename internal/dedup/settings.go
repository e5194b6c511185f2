// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package dedup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/pool"
	"github.com/davetashner/phishdedup/internal/store"
)

// Settings is the complete, resolved configuration of a check. It is a plain
// value: copy it freely, never share it mutably.
type Settings struct {
	Fields        pool.Fields
	Policy        decision.SenderPolicy
	Threshold     float64
	MinTextLength int

	Scope        store.StatusScope
	IncidentType string
	TypeField    string
	Lookback     store.Lookback
	Limit        int
	Fragment     string
}

// DefaultSettings returns the stock phishing dedup configuration.
func DefaultSettings() Settings {
	lookback, _ := store.ParseLookback(store.DefaultLookback)
	return Settings{
		Fields:        pool.DefaultFields(),
		Policy:        decision.TextOnly,
		Threshold:     decision.DefaultThreshold,
		MinTextLength: pool.DefaultMinTextLength,
		Scope:         store.All,
		IncidentType:  "Phishing",
		TypeField:     store.DefaultTypeField,
		Lookback:      lookback,
		Limit:         store.DefaultLimit,
	}
}

// Validate reports every problem with s, wrapped in ErrConfiguration.
func (s Settings) Validate() error {
	var errs []error
	if s.Threshold < 0 || s.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold %v outside [0, 1]", s.Threshold))
	}
	if s.MinTextLength < 0 {
		errs = append(errs, fmt.Errorf("min text length %d is negative", s.MinTextLength))
	}
	if s.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit %d is negative", s.Limit))
	}
	if s.Lookback < 0 {
		errs = append(errs, fmt.Errorf("lookback %v is negative", time.Duration(s.Lookback)))
	}
	if _, err := decision.ParseSenderPolicy(s.Policy.String()); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.ParseStatusScope(s.Scope.String()); err != nil {
		errs = append(errs, err)
	}
	for _, f := range []struct{ name, value string }{
		{"subject", s.Fields.Subject},
		{"body", s.Fields.Body},
		{"html body", s.Fields.HTMLBody},
		{"from", s.Fields.From},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s field name is empty", f.name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
}

// query builds the store query for a check running at now.
func (s Settings) query(now time.Time) store.Query {
	return store.Query{
		Scope:        s.Scope,
		IncidentType: s.IncidentType,
		TypeField:    s.TypeField,
		From:         s.Lookback.Since(now),
		Limit:        s.Limit,
		Fragment:     s.Fragment,
	}
}

func (s Settings) builder() pool.Builder {
	return pool.Builder{Fields: s.Fields, MinTextLength: s.MinTextLength}
}
