// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/dedup"
)

func duplicateResult() *dedup.Result {
	return &dedup.Result{
		Outcome:    decision.Duplicate,
		IncidentID: "42",
		MatchID:    "41",
		Similarity: 0.996,
		Threshold:  0.99,
		Queried:    10,
		Compared:   4,
		CommandID:  "c0ffee",
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, Names())

	f, err := GetFormatter("json")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	_, err = GetFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: json, markdown, text")
}

type stubFormatter struct{}

func (stubFormatter) Name() string                          { return "stub" }
func (stubFormatter) Format(*dedup.Result, io.Writer) error { return nil }

func TestRegistry_Reset(t *testing.T) {
	saved := Names()
	t.Cleanup(func() {
		resetFmtForTesting()
		RegisterFormatter(NewTextFormatter())
		RegisterFormatter(NewJSONFormatter())
		RegisterFormatter(NewMarkdownFormatter())
		assert.Equal(t, saved, Names())
	})

	resetFmtForTesting()
	assert.Empty(t, Names())
	RegisterFormatter(stubFormatter{})
	assert.Equal(t, []string{"stub"}, Names())
}

func TestTextFormatter(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().Format(duplicateResult(), &buf))
	assert.Equal(t,
		"[duplicate] Duplicate incidents found: #42, #41 with similarity of 99.6%. This incident will be closed and linked to 41.\n",
		buf.String())
}

func TestTextFormatter_Color(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().Format(&dedup.Result{Outcome: decision.NoIncidents}, &buf))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "No duplicate incident found")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{nowFunc: func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }}

	var buf bytes.Buffer
	require.NoError(t, f.Format(duplicateResult(), &buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2024-01-02T03:04:05Z", got["generated_at"])
	assert.Contains(t, got["message"], "#42, #41")
	result := got["result"].(map[string]any)
	assert.Equal(t, "duplicate", result["outcome"])
	assert.Equal(t, "c0ffee", result["command_id"])
	assert.Contains(t, buf.String(), "\n  ", "buffers get pretty output")
}

func TestJSONFormatter_Compact(t *testing.T) {
	f := &JSONFormatter{Compact: true}
	var buf bytes.Buffer
	require.NoError(t, f.Format(duplicateResult(), &buf))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(duplicateResult(), &buf))
	out := buf.String()
	assert.Contains(t, out, "# Phishing dedup check")
	assert.Contains(t, out, "| Closest match | 41 |")
	assert.Contains(t, out, "| Similarity | 99.6% |")
	assert.Contains(t, out, "> Duplicate incidents found")
}

func TestMarkdownFormatter_MultilineMessage(t *testing.T) {
	res := &dedup.Result{Outcome: decision.BelowThreshold, IncidentID: "8", MatchID: "7", Similarity: 0.62, Threshold: 0.99}
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(res, &buf))
	assert.Contains(t, buf.String(), "> Most similar incident found is #7 with similarity of 62.0%.")
	assert.NotContains(t, buf.String(), "| Command |")
}
