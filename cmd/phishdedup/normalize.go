// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/phishdedup/internal/config"
	"github.com/davetashner/phishdedup/internal/dedup"
	"github.com/davetashner/phishdedup/internal/incident"
	"github.com/davetashner/phishdedup/internal/pool"
)

// Normalize-specific flag values.
var (
	normalizeIncident string
	normalizeJSON     bool
)

// normalizeCmd prints the comparison view of one incident.
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Show the normalized text and sender of an incident",
	Long: `Show the text, sender and sender domain an incident is compared by.

The text is the subject and body joined by a space, with the body taken from
the HTML part when the plain body is empty and every URL reduced to its
scheme and host. Field names follow the configured fields.* keys.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeIncident, "incident", "", "JSON file holding the incident")
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "print the result as JSON")
	_ = normalizeCmd.MarkFlagRequired("incident")
}

// resetNormalizeFlags resets normalize command flags for testing.
func resetNormalizeFlags() {
	normalizeIncident, normalizeJSON = "", false
	normalizeCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

// normalizeOutput is the JSON form of the normalize command.
type normalizeOutput struct {
	incident.Normalized
	Length        int  `json:"length"`
	MinTextLength int  `json:"min_text_length"`
	LongEnough    bool `json:"long_enough"`
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLayered(".", os.LookupEnv)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	settings, err := config.Resolve(cfg)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}

	rec, err := dedup.FileSource{Path: normalizeIncident, FS: cmdFS}.Incident(cmd.Context())
	if err != nil {
		return exitError(exitCodeFor(err), "phishdedup: %v", err)
	}

	// The gate is applied below so short texts are still shown.
	b := pool.Builder{Fields: settings.Fields}
	n, _, err := b.Normalize(rec)
	if err != nil {
		return exitError(ExitDataError, "phishdedup: %v", err)
	}
	out := normalizeOutput{
		Normalized:    n,
		Length:        utf8.RuneCountInString(n.Text),
		MinTextLength: settings.MinTextLength,
	}
	out.LongEnough = out.Length >= out.MinTextLength

	w := cmd.OutOrStdout()
	if normalizeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	label := color.New(color.Bold)
	_, _ = fmt.Fprintf(w, "%s %s\n", label.Sprint("id:"), n.ID)
	_, _ = fmt.Fprintf(w, "%s %s\n", label.Sprint("created:"), n.Created.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "%s %s\n", label.Sprint("sender:"), n.Sender)
	_, _ = fmt.Fprintf(w, "%s %s\n", label.Sprint("domain:"), n.SenderDomain)
	lengthNote := color.GreenString("ok")
	if !out.LongEnough {
		lengthNote = color.YellowString("too short, minimum %d", out.MinTextLength)
	}
	_, _ = fmt.Fprintf(w, "%s %d (%s)\n", label.Sprint("length:"), out.Length, lengthNote)
	_, _ = fmt.Fprintf(w, "%s\n%s\n", label.Sprint("text:"), n.Text)
	return nil
}
