// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/dedup"
	"github.com/davetashner/phishdedup/internal/store"
)

// DefaultOutputFormat is used when no output format is configured.
const DefaultOutputFormat = "text"

// Resolve turns a merged config into dedup settings, starting from the
// defaults. Errors wrap dedup.ErrConfiguration.
func Resolve(cfg *Config) (dedup.Settings, error) {
	s := dedup.DefaultSettings()

	mergeString(&s.Fields.Subject, cfg.Fields.Subject)
	mergeString(&s.Fields.Body, cfg.Fields.Body)
	mergeString(&s.Fields.HTMLBody, cfg.Fields.HTMLBody)
	mergeString(&s.Fields.From, cfg.Fields.From)

	if cfg.FromPolicy != "" {
		p, err := decision.ParseSenderPolicy(cfg.FromPolicy)
		if err != nil {
			return dedup.Settings{}, fmt.Errorf("%w: from_policy: %w", dedup.ErrConfiguration, err)
		}
		s.Policy = p
	}
	if cfg.Threshold != nil {
		s.Threshold = *cfg.Threshold
	}
	if cfg.MinTextLength != nil {
		s.MinTextLength = *cfg.MinTextLength
	}

	q := cfg.Query
	if q.Limit != nil {
		s.Limit = *q.Limit
	}
	mergeString(&s.IncidentType, q.IncidentTypes)
	mergeString(&s.TypeField, q.TypeField)
	mergeString(&s.Fragment, q.Fragment)
	if q.StatusScope != "" {
		scope, err := store.ParseStatusScope(q.StatusScope)
		if err != nil {
			return dedup.Settings{}, fmt.Errorf("%w: query.status_scope: %w", dedup.ErrConfiguration, err)
		}
		s.Scope = scope
	}
	if q.Lookback != "" {
		lb, err := store.ParseLookback(q.Lookback)
		if err != nil {
			return dedup.Settings{}, fmt.Errorf("%w: query.lookback: %w", dedup.ErrConfiguration, err)
		}
		s.Lookback = lb
	}

	if err := s.Validate(); err != nil {
		return dedup.Settings{}, err
	}
	return s, nil
}

// Effective returns cfg with every unset value filled in from the
// defaults, for display.
func Effective(cfg *Config) *Config {
	d := dedup.DefaultSettings()
	threshold := d.Threshold
	minLen := d.MinTextLength
	limit := d.Limit

	defaults := &Config{
		Fields: Fields{
			Subject:  d.Fields.Subject,
			Body:     d.Fields.Body,
			HTMLBody: d.Fields.HTMLBody,
			From:     d.Fields.From,
		},
		FromPolicy:    d.Policy.String(),
		Threshold:     &threshold,
		MinTextLength: &minLen,
		OutputFormat:  DefaultOutputFormat,
		Query: Query{
			Limit:         &limit,
			IncidentTypes: d.IncidentType,
			TypeField:     d.TypeField,
			StatusScope:   d.Scope.String(),
			Lookback:      store.DefaultLookback,
		},
	}
	return Merge(defaults, cfg)
}
