// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package dedup decides whether a new phishing incident duplicates an
// earlier one and, if so, closes it against that incident.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/phishdedup/internal/action"
	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/pool"
	"github.com/davetashner/phishdedup/internal/redact"
	"github.com/davetashner/phishdedup/internal/similarity"
	"github.com/davetashner/phishdedup/internal/store"
)

// Checker runs dedup checks. It holds no per-check state and is safe for
// concurrent use.
type Checker struct {
	Settings Settings
	Store    store.Store
	Sink     action.Sink
	// Now returns the check time; nil means time.Now.
	Now func() time.Time
}

func (c *Checker) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Checker) validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.Store == nil {
		return fmt.Errorf("%w: no incident store", ErrConfiguration)
	}
	if c.Sink == nil {
		return fmt.Errorf("%w: no action sink", ErrConfiguration)
	}
	return nil
}

// Check decides whether current duplicates an incident returned by the
// store. Soft outcomes are reported in the Result, never as errors.
func (c *Checker) Check(ctx context.Context, current incident.Record) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	records, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	return c.evaluate(ctx, current, records)
}

// Run fetches the incident from source and the candidate records from the
// store concurrently, then checks it. The first fetch failure cancels the
// other.
func (c *Checker) Run(ctx context.Context, source Source) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var (
		current incident.Record
		records []incident.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := source.Incident(gctx)
		if err != nil {
			if errors.Is(err, ErrData) {
				return err
			}
			return fmt.Errorf("%w: fetch incident: %w", ErrBackendQuery, err)
		}
		current = rec
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = c.query(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c.evaluate(ctx, current, records)
}

func (c *Checker) query(ctx context.Context) ([]incident.Record, error) {
	q := c.Settings.query(c.now())
	records, err := c.Store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrBackendQuery, q.String(), err)
	}
	slog.Info("found incidents by query", "count", len(records), "query", q.String())
	return records, nil
}

func (c *Checker) evaluate(ctx context.Context, current incident.Record, records []incident.Record) (*Result, error) {
	s := c.Settings
	res := &Result{Threshold: s.Threshold, Queried: len(records)}
	if id, err := current.Flatten().ID(); err == nil {
		res.IncidentID = id
	}

	if len(records) == 0 {
		return c.finish(res, decision.NoIncidents), nil
	}
	if !hasTextFields(current, s.Fields) {
		res.TextFields = s.Fields.Text()
		return c.finish(res, decision.NoTextFields), nil
	}

	b := s.builder()
	cur, ok, err := b.Normalize(current)
	if err != nil {
		return nil, fmt.Errorf("%w: current incident: %w", ErrData, err)
	}
	if !ok {
		return c.finish(res, decision.TooShort), nil
	}
	slog.Debug("incident normalized", "id", cur.ID, "sender", redact.Email(cur.Sender), "domain", cur.SenderDomain)

	built, err := b.Build(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrData, err)
	}
	candidates := pool.Candidates(built, cur)
	res.Compared = len(candidates)
	if len(candidates) == 0 {
		return c.finish(res, decision.NoDuplicate), nil
	}

	scored, err := similarity.Score(cur.Text, candidates)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	d := decision.Decide(cur, scored, s.Policy, s.Threshold)
	if d.Match != nil {
		res.MatchID = d.Match.ID
		res.Similarity = d.Similarity
	}

	if d.Outcome == decision.Duplicate {
		cmd := action.NewCloseCommand(cur.ID, d.Match.ID, d.Similarity, c.now())
		if err := c.Sink.CloseAsDuplicate(ctx, cmd); err != nil {
			return nil, fmt.Errorf("%w: close %s as duplicate of %s: %w", ErrBackendAction, cur.ID, d.Match.ID, err)
		}
		res.CommandID = cmd.ID
	}
	return c.finish(res, d.Outcome), nil
}

func (c *Checker) finish(res *Result, outcome decision.Outcome) *Result {
	res.Outcome = outcome
	slog.Info("dedup check finished",
		"incident", res.IncidentID,
		"outcome", string(outcome),
		"match", res.MatchID,
		"similarity", res.Similarity,
	)
	return res
}

// hasTextFields reports whether any text field key exists on the record,
// whatever its value.
func hasTextFields(r incident.Record, f pool.Fields) bool {
	for _, key := range f.Text() {
		if r.Has(key) {
			return true
		}
	}
	return false
}
