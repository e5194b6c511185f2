// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/davetashner/phishdedup/internal/dedup"
)

// Exit codes for the phishdedup CLI.
const (
	ExitOK             = 0 // Check completed, whatever the outcome.
	ExitInvalidArgs    = 1 // Invalid arguments or configuration.
	ExitBackendFailure = 2 // Incident store or action sink failed.
	ExitDataError      = 3 // Malformed incident data.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitInvalidArgs:
			msg = "phishdedup: invalid configuration"
		case ExitBackendFailure:
			msg = "phishdedup: backend failure"
		case ExitDataError:
			msg = "phishdedup: malformed incident data"
		default:
			msg = "phishdedup: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// exitCodeFor maps a dedup error to its exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, dedup.ErrConfiguration):
		return ExitInvalidArgs
	case errors.Is(err, dedup.ErrData):
		return ExitDataError
	default:
		// Store and sink failures, and anything unclassified.
		return ExitBackendFailure
	}
}
