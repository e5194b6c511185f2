package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davetashner/phishdedup/internal/normalize"
	"github.com/davetashner/phishdedup/internal/similarity"
)

// scoreCmd scores two texts against each other.
var scoreCmd = &cobra.Command{
	Use:   "score <text-a> <text-b>",
	Short: "Score the similarity of two texts",
	Long: `Score the TF-IDF cosine similarity of two texts, using a model fit on
just the two of them after URL canonicalization. Prints a value between
0 and 1 and the percentage used in check messages.

Example:
  phishdedup score "Reset your password at https://evil.com/a" "Reset your password at https://evil.com/b"`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	sim, ok, err := similarity.Pair(
		normalize.CanonicalizeURLs(args[0]),
		normalize.CanonicalizeURLs(args[1]),
	)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	if !ok {
		return exitError(ExitInvalidArgs, "phishdedup: both texts need a term to be compared (a word of two or more characters, or one of ! ? \" ')")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%.6f (%.1f%%)\n", sim, sim*100)
	return nil
}
