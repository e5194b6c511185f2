package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	phishlog "github.com/davetashner/phishdedup/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
	logJSON bool
)

// rootCmd is the base command for phishdedup.
var rootCmd = &cobra.Command{
	Use:   "phishdedup",
	Short: "Detect duplicate phishing incidents",
	Long: `Phishdedup decides whether a newly reported phishing incident is a
near-duplicate of an earlier one. It normalizes the email text, scores it
against recent incidents with TF-IDF cosine similarity, optionally requires
a matching sender or sender domain, and closes the new incident as a
duplicate when the best match reaches the threshold.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		phishlog.Setup(phishlog.Options{
			Verbose: verbose,
			Quiet:   quiet,
			JSON:    logJSON,
			Writer:  cmd.ErrOrStderr(),
		})
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
