// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/davetashner/phishdedup/internal/config"
	"github.com/davetashner/phishdedup/internal/validate"
)

// validateCmd checks an incident file for records a check would reject.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an incident file",
	Long: `Validate a JSON array or JSON-lines incident file before using it as a
store or incident file for 'phishdedup check'.

Every record needs an id, a parseable created timestamp and at least one of
the configured text fields; text and sender fields must be strings; ids must
be unique. Every problem is reported with a suggested fix, where a check
stops at the first malformed record.

Pass a file path as an argument, or pipe the file via stdin:
  phishdedup validate incidents.jsonl
  cat incidents.jsonl | phishdedup validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadLayered(".", os.LookupEnv)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	settings, err := config.Resolve(cfg)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}

	// Determine input source: file argument or stdin.
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		f, err := os.Open(args[0]) //nolint:gosec // user-provided path is expected
		if err != nil {
			return exitError(ExitInvalidArgs, "phishdedup: cannot open %q (%v)", args[0], err)
		}
		defer f.Close() //nolint:errcheck // best-effort close on input file
		r = f
	}

	result, err := validate.New(settings.Fields).Validate(r)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}

	if result.Valid() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d incidents\n", result.TotalRecords)
		return nil
	}
	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "record %d:", e.Record)
		if e.Field != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), " %s:", e.Field)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), " %s\n", e.Message)
		if e.Suggestion != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  fix: %s\n", e.Suggestion)
		}
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n%d error(s) found in %d incidents\n",
		len(result.Errors), result.TotalRecords)
	return exitError(ExitDataError, "")
}
