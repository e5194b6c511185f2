package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/phishdedup/internal/dedup"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes the result as a short Markdown note suitable for
// pasting into a case record.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes a heading, a details table and the verdict as a quote.
func (m *MarkdownFormatter) Format(res *dedup.Result, w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Phishing dedup check\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "| %s | %s |\n", k, v)
		}
	}
	row("Outcome", string(res.Outcome))
	row("Incident", res.IncidentID)
	row("Closest match", res.MatchID)
	if res.MatchID != "" {
		row("Similarity", fmt.Sprintf("%.1f%%", res.Similarity*100))
	}
	row("Threshold", fmt.Sprintf("%.1f%%", res.Threshold*100))
	row("Queried", fmt.Sprint(res.Queried))
	row("Compared", fmt.Sprint(res.Compared))
	row("Command", res.CommandID)

	b.WriteString("\n")
	for _, line := range strings.Split(res.Message(), "\n") {
		b.WriteString("> " + line + "\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
