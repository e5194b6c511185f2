// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OverWins(t *testing.T) {
	base := &Config{
		FromPolicy:   "Domain",
		OutputFormat: "markdown",
		Threshold:    ptr(0.9),
		Fields:       Fields{Body: "b1", From: "f1"},
		Query:        Query{Limit: ptr(10), Lookback: "30d", Fragment: "a:b"},
	}
	over := &Config{
		FromPolicy: "Exact",
		Threshold:  ptr(0.0),
		Fields:     Fields{Body: "b2"},
		Query:      Query{Lookback: "7d"},
	}

	got := Merge(base, over)
	assert.Equal(t, "Exact", got.FromPolicy)
	assert.Equal(t, "markdown", got.OutputFormat)
	require.NotNil(t, got.Threshold)
	assert.Equal(t, 0.0, *got.Threshold, "explicit zero overrides")
	assert.Equal(t, "b2", got.Fields.Body)
	assert.Equal(t, "f1", got.Fields.From)
	assert.Equal(t, 10, *got.Query.Limit)
	assert.Equal(t, "7d", got.Query.Lookback)
	assert.Equal(t, "a:b", got.Query.Fragment)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	base := &Config{FromPolicy: "Domain"}
	over := &Config{FromPolicy: "Exact"}
	_ = Merge(base, over)
	assert.Equal(t, "Domain", base.FromPolicy)
	assert.Equal(t, "Exact", over.FromPolicy)
}

func TestMerge_EmptyOver(t *testing.T) {
	base := &Config{OutputFormat: "json", MinTextLength: ptr(20)}
	assert.Equal(t, base, Merge(base, &Config{}))
}
