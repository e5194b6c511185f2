// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package validate checks incident files record by record for the problems
// that make a duplicate check fail with a data error or skip an incident.
// It reports every problem at once, with fix suggestions, where the check
// itself stops at the first malformed record.
package validate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/pool"
)

// maxLine bounds a single JSONL record.
const maxLine = 1 << 20

// ValidationError represents a single validation issue in a specific record.
type ValidationError struct {
	Record     int    // 1-based line number (JSONL) or array position
	Field      string // field name (empty if record-level error)
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %d: %s: %s", e.Record, e.Field, e.Message)
	}
	return fmt.Sprintf("record %d: %s", e.Record, e.Message)
}

// Result contains the outcome of validating an incident file.
type Result struct {
	TotalRecords int
	Errors       []ValidationError
}

// Valid returns true if no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator checks records against the configured field names.
type Validator struct {
	Fields pool.Fields

	seen map[string]int
}

// New returns a validator for the given field names.
func New(fields pool.Fields) *Validator {
	return &Validator{Fields: fields}
}

// Validate reads a JSON array or JSON-lines incident file from r and checks
// every record.
func (v *Validator) Validate(r io.Reader) (*Result, error) {
	v.seen = make(map[string]int)
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, err
	}
	if first == '[' {
		return v.validateArray(br)
	}
	return v.validateLines(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if !strings.ContainsRune(" \t\r\n", rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func (v *Validator) validateArray(r io.Reader) (*Result, error) {
	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		return &Result{Errors: []ValidationError{{
			Record:     1,
			Message:    fmt.Sprintf("invalid JSON array: %v", err),
			Suggestion: "ensure the file is one JSON array of objects, or one JSON object per line",
		}}}, nil
	}
	result := &Result{}
	for i, elem := range elems {
		result.TotalRecords++
		v.validateRecord(elem, i+1, result)
	}
	return result, nil
}

func (v *Validator) validateLines(r io.Reader) (*Result, error) {
	result := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())

		// Skip empty lines.
		if len(line) == 0 {
			continue
		}

		result.TotalRecords++
		v.validateRecord(line, lineNum, result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNum+1, err)
	}
	return result, nil
}

// validateRecord decodes a single record and checks all fields.
func (v *Validator) validateRecord(data []byte, pos int, result *Result) {
	add := func(field, msg, suggestion string) {
		result.Errors = append(result.Errors, ValidationError{
			Record: pos, Field: field, Message: msg, Suggestion: suggestion,
		})
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		add("", fmt.Sprintf("invalid JSON: %v", err), "ensure each line is a valid JSON object")
		return
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		add("", fmt.Sprintf("record must be a JSON object, got %s", jsonKind(raw)), "wrap the incident fields in {...}")
		return
	}
	rec := incident.Record(obj)
	flat := rec.Flatten()

	if id, err := flat.ID(); err != nil {
		add(incident.KeyID, err.Error(), `set "id" to a non-empty string or a number`)
	} else if first, dup := v.seen[id]; dup {
		add(incident.KeyID, fmt.Sprintf("duplicate id %q (first seen in record %d)", id, first),
			"give every incident a unique id")
	} else {
		v.seen[id] = pos
	}

	if _, err := flat.Created(); err != nil {
		add(incident.KeyCreated, err.Error(), `use an RFC 3339 timestamp such as "2024-05-01T08:00:00Z"`)
	}

	v.checkTextFields(rec, flat, add)
}

func (v *Validator) checkTextFields(rec, flat incident.Record, add func(field, msg, suggestion string)) {
	textFields := v.Fields.Text()
	found := false
	for _, name := range textFields {
		if rec.Has(name) {
			found = true
			break
		}
	}
	if !found {
		suggestion := fmt.Sprintf("add at least one of: %s", strings.Join(textFields, ", "))
		if key, want := v.misspelled(flat, textFields); key != "" {
			suggestion = fmt.Sprintf("did you mean %q instead of %q?", want, key)
		}
		add("", "no text fields; the incident would be created without a duplicate check", suggestion)
	}

	for _, name := range append(textFields, v.Fields.From) {
		if f := flat.Field(name); f.Kind == incident.FieldNonString {
			add(name, fmt.Sprintf("field %q must be a string, got %s", name, jsonKind(flat[name])),
				fmt.Sprintf("set %q to a JSON string value", name))
		}
	}
}

// misspelled returns the record key closest to one of the wanted names,
// and that name, when the two are within a small edit distance.
func (v *Validator) misspelled(flat incident.Record, wanted []string) (key, want string) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bestDist := 4
	for _, k := range keys {
		for _, w := range wanted {
			if d := levenshtein(strings.ToLower(k), w); d < bestDist {
				bestDist, key, want = d, k, w
			}
		}
	}
	return key, want
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// levenshtein computes the Levenshtein edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Use a single-row DP approach.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
