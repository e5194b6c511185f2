// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package dedup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/testable"
)

// Source supplies the incident being checked.
type Source interface {
	Incident(ctx context.Context) (incident.Record, error)
}

// RecordSource serves an in-memory record.
type RecordSource struct {
	Record incident.Record
}

// Incident returns the wrapped record.
func (s RecordSource) Incident(context.Context) (incident.Record, error) {
	return s.Record, nil
}

// FileSource reads the incident from a JSON file holding either one object
// or an array whose first element is the incident.
type FileSource struct {
	Path string
	FS   testable.FileSystem
}

// Incident reads and decodes the file. Decoding problems wrap ErrData.
func (s FileSource) Incident(ctx context.Context) (incident.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fsys := s.FS
	if fsys == nil {
		fsys = testable.DefaultFS
	}
	data, err := fsys.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read incident: %w", err)
	}
	return decodeIncident(data)
}

func decodeIncident(data []byte) (incident.Record, error) {
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if len(data) > 0 && data[0] == '[' {
		var records []incident.Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decode incident: %w", ErrData, err)
		}
		if len(records) == 0 || records[0] == nil {
			return nil, fmt.Errorf("%w: incident file holds no incident", ErrData)
		}
		return records[0], nil
	}

	var rec incident.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decode incident: %w", ErrData, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: incident is null", ErrData)
	}
	return rec, nil
}
