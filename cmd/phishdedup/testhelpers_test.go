// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/phishdedup/internal/testable"
)

// newTestCmd redirects the root command's I/O to buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd, stdout, stderr
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// isolate runs the test in an empty working directory with an empty global
// config, and returns that directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)
	return dir
}

// execute runs the root command with args after resetting flag state.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetCheckFlags()
	resetConfigFlags()
	resetNormalizeFlags()
	verbose, quiet, noColor, logJSON = false, false, false, false
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	cmd, out, errOut := newTestCmd()
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// exitCode returns the exit code carried by err, or -1.
func exitCode(err error) int {
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.ExitCode()
	}
	return -1
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func lure(id string, age time.Duration, track string) map[string]any {
	return map[string]any{
		"id":           id,
		"type":         "Phishing",
		"created":      time.Now().Add(-age).UTC().Format(time.RFC3339),
		"emailfrom":    "Security Team <security@evil.com>",
		"emailsubject": "Action required: account locked",
		"emailbody": fmt.Sprintf(
			"Your account was locked. Visit https://evil.com/unlock?track=%s to restore access immediately.", track),
	}
}

// writeCase writes a duplicate pair: the store holds an earlier incident
// and the current one, the incident file holds the current one.
func writeCase(t *testing.T, dir string) (incidentPath, storePath string) {
	t.Helper()
	earlier := lure("41", 48*time.Hour, "AAA111")
	current := lure("42", time.Hour, "BBB222")

	cur, err := json.Marshal(current)
	require.NoError(t, err)
	incidentPath = writeFile(t, dir, "incident.json", string(cur))

	var lines bytes.Buffer
	for _, rec := range []map[string]any{earlier, current} {
		line, err := json.Marshal(rec)
		require.NoError(t, err)
		lines.Write(line)
		lines.WriteByte('\n')
	}
	storePath = writeFile(t, dir, "incidents.jsonl", lines.String())
	return incidentPath, storePath
}
