// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package action issues the close-as-duplicate command for a new incident.
package action

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CloseAsDuplicate is the action name recorded on close commands.
const CloseAsDuplicate = "close_as_duplicate"

// Command closes one incident and links it to the incident it duplicates.
type Command struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	IncidentID  string    `json:"incident_id"`
	DuplicateOf string    `json:"duplicate_of"`
	Similarity  float64   `json:"similarity"`
	IssuedAt    time.Time `json:"issued_at"`
}

// NewCloseCommand builds a uniquely identified close command.
func NewCloseCommand(incidentID, duplicateOf string, similarity float64, now time.Time) Command {
	return Command{
		ID:          uuid.NewString(),
		Action:      CloseAsDuplicate,
		IncidentID:  incidentID,
		DuplicateOf: duplicateOf,
		Similarity:  similarity,
		IssuedAt:    now.UTC(),
	}
}

// Sink carries out close commands against a case-management backend.
type Sink interface {
	CloseAsDuplicate(ctx context.Context, cmd Command) error
}
