// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/phishdedup/internal/action"
	"github.com/davetashner/phishdedup/internal/config"
	"github.com/davetashner/phishdedup/internal/dedup"
	"github.com/davetashner/phishdedup/internal/output"
	"github.com/davetashner/phishdedup/internal/store"
)

// Check-specific flag values.
var (
	checkIncident  string
	checkStore     string
	checkSink      string
	checkDryRun    bool
	checkPolicy    = newPolicyValue()
	checkThreshold float64
	checkMinLength int
	checkLimit     int
	checkScope     = newScopeValue()
	checkTypes     string
	checkLookback  string
	checkQuery     string
	checkFormat    string
)

// checkCmd runs the duplicate check for one incident.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an incident duplicates an earlier one",
	Long: `Check whether the incident in --incident is a near-duplicate of an
earlier incident in --store, and close it as a duplicate when it is.

The store is a JSON array or JSON-lines file of historical incidents. The
close command is appended to --sink as one JSON line; without --sink the
check is a dry run and the command is only logged.

Settings come from built-in defaults, the global config, .phishdedup.yaml
(or .phishdedup.toml), PHISHDEDUP_* environment variables and finally the
flags below, each overriding the previous.

Exit codes: 0 check completed (duplicate or not), 1 invalid arguments or
configuration, 2 store or sink failure, 3 malformed incident data.

Examples:
  phishdedup check --incident new.json --store incidents.jsonl
  phishdedup check --incident new.json --store incidents.jsonl --sink actions.jsonl --from-policy Domain
  phishdedup check --incident new.json --store incidents.jsonl --lookback 30d --format json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkIncident, "incident", "", "JSON file holding the new incident")
	f.StringVar(&checkStore, "store", "", "JSON or JSONL file of historical incidents")
	f.StringVar(&checkSink, "sink", "", "JSONL file receiving close-as-duplicate commands")
	f.BoolVar(&checkDryRun, "dry-run", false, "log the close command instead of writing it (default without --sink)")
	f.Var(checkPolicy, "from-policy", "sender policy: TextOnly, Exact or Domain")
	f.Float64Var(&checkThreshold, "threshold", 0, "similarity threshold between 0.0 and 1.0 (default 0.99)")
	f.IntVar(&checkMinLength, "min-length", 0, "minimum normalized text length in characters (default 50)")
	f.IntVar(&checkLimit, "limit", 0, "maximum number of historical incidents to compare (default 1000)")
	f.Var(checkScope, "status-scope", "historical incidents to query: All, ClosedOnly or NonClosedOnly")
	f.StringVar(&checkTypes, "incident-types", "", "comma-separated incident types to query (default Phishing)")
	f.StringVar(&checkLookback, "lookback", "", `how far back to query, e.g. 30d or "100 days ago"`)
	f.StringVar(&checkQuery, "query", "", "additional query fragment, e.g. owner:alice and -severity:low")
	f.StringVarP(&checkFormat, "format", "f", "", "output format: json, markdown, text (default text)")

	_ = checkCmd.MarkFlagRequired("incident")
	_ = checkCmd.MarkFlagRequired("store")
	checkCmd.MarkFlagsMutuallyExclusive("sink", "dry-run")
}

// resetCheckFlags resets check command flags for testing.
func resetCheckFlags() {
	checkIncident, checkStore, checkSink = "", "", ""
	checkDryRun = false
	checkPolicy.value, checkScope.value = "", ""
	checkThreshold, checkMinLength, checkLimit = 0, 0, 0
	checkTypes, checkLookback, checkQuery, checkFormat = "", "", "", ""
	checkCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCheckConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := config.Resolve(cfg)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	formatter, err := output.GetFormatter(cfg.OutputFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}

	var sink action.Sink = action.LogSink{}
	if checkSink != "" {
		sink = &action.FileSink{Path: checkSink, FS: cmdFS}
	}
	checker := &dedup.Checker{
		Settings: settings,
		Store:    &store.FileStore{Path: checkStore, FS: cmdFS},
		Sink:     sink,
	}

	slog.Debug("checking incident", "incident", checkIncident, "store", checkStore,
		"policy", settings.Policy, "threshold", settings.Threshold)
	res, err := checker.Run(cmd.Context(), dedup.FileSource{Path: checkIncident, FS: cmdFS})
	if err != nil {
		return exitError(exitCodeFor(err), "phishdedup: check failed (%v)", err)
	}

	if err := formatter.Format(res, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("phishdedup: writing output: %w", err)
	}
	return nil
}

// loadCheckConfig layers the check flags over the file and environment
// config and validates the result.
func loadCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	fileCfg, err := config.LoadLayered(".", os.LookupEnv)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}

	cfg := config.Merge(fileCfg, flagConfig(cmd))
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = config.DefaultOutputFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	return cfg, nil
}

// flagConfig returns a config holding only the flags set on the command
// line.
func flagConfig(cmd *cobra.Command) *config.Config {
	flags := cmd.Flags()
	cfg := &config.Config{
		FromPolicy:   checkPolicy.value,
		OutputFormat: checkFormat,
		Query: config.Query{
			IncidentTypes: checkTypes,
			StatusScope:   checkScope.value,
			Lookback:      checkLookback,
			Fragment:      checkQuery,
		},
	}
	if flags.Changed("threshold") {
		v := checkThreshold
		cfg.Threshold = &v
	}
	if flags.Changed("min-length") {
		v := checkMinLength
		cfg.MinTextLength = &v
	}
	if flags.Changed("limit") {
		v := checkLimit
		cfg.Query.Limit = &v
	}
	return cfg
}
