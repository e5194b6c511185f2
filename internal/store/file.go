package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/testable"
)

// statusClosed is the numeric status code backends use for closed incidents.
const statusClosed = "2"

// FileStore serves incidents from a JSON array or JSON Lines file.
type FileStore struct {
	Path string
	FS   testable.FileSystem
}

// NewFileStore creates a store reading path from the real file system.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) fileSystem() testable.FileSystem {
	if s.FS == nil {
		return testable.DefaultFS
	}
	return s.FS
}

// Query reads the file and returns the records matching q in file order.
// A missing file yields no records.
func (s *FileStore) Query(ctx context.Context, q Query) ([]incident.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms, err := parseFragment(q.Fragment)
	if err != nil {
		return nil, err
	}

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	slog.Debug("incident file loaded", "path", s.Path, "records", len(records), "query", q.String())

	types := splitTypes(q.IncidentType)
	limit := q.limit()
	out := make([]incident.Record, 0, min(len(records), limit))
	for _, rec := range records {
		if len(out) == limit {
			break
		}
		flat := rec.Flatten()
		if !matchScope(flat, q.Scope) || !matchType(flat, q.typeField(), types) || !matchFrom(flat, q) {
			continue
		}
		if !matchTerms(flat, terms) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *FileStore) load() ([]incident.Record, error) {
	data, err := s.fileSystem().ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read incident file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var records []incident.Record
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse incident file %s: %w", s.Path, err)
		}
		return records, nil
	}
	return decodeLines(trimmed)
}

// decodeLines parses one JSON object per line, skipping blank lines. Lines
// have no length limit.
func decodeLines(data []byte) ([]incident.Record, error) {
	var records []incident.Record
	reader := bufio.NewReader(bytes.NewReader(data))

	lineNum := 0
	for {
		raw, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read incident lines: %w", readErr)
		}
		if len(raw) > 0 {
			lineNum++
		}
		if line := bytes.TrimSpace(raw); len(line) > 0 {
			var rec incident.Record
			dec := json.NewDecoder(bytes.NewReader(line))
			dec.UseNumber()
			if err := dec.Decode(&rec); err != nil {
				return nil, fmt.Errorf("parse incident at line %d: %w", lineNum, err)
			}
			records = append(records, rec)
		}
		if readErr != nil {
			return records, nil
		}
	}
}

func isClosed(r incident.Record) bool {
	v, ok := scalarString(r[incident.KeyStatus])
	if !ok {
		return false
	}
	return strings.EqualFold(v, "closed") || v == statusClosed
}

func matchScope(r incident.Record, scope StatusScope) bool {
	switch scope {
	case ClosedOnly:
		return isClosed(r)
	case NonClosedOnly:
		return !isClosed(r)
	default:
		return true
	}
}

func splitTypes(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func matchType(r incident.Record, field string, types []string) bool {
	if len(types) == 0 {
		return true
	}
	v, ok := scalarString(r[field])
	if !ok {
		return false
	}
	for _, t := range types {
		if strings.EqualFold(v, t) {
			return true
		}
	}
	return false
}

// matchFrom keeps records created at or after q.From. Records whose
// timestamp does not parse are kept so the caller can report them.
func matchFrom(r incident.Record, q Query) bool {
	if q.From.IsZero() {
		return true
	}
	created, err := r.Created()
	if err != nil {
		return true
	}
	return !created.Before(q.From)
}

func matchTerms(r incident.Record, terms []term) bool {
	for _, t := range terms {
		if !t.matches(r) {
			return false
		}
	}
	return true
}
