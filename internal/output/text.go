package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/davetashner/phishdedup/internal/decision"
	"github.com/davetashner/phishdedup/internal/dedup"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

// TextFormatter writes the human-readable verdict preceded by a colored
// outcome label. Colors follow fatih/color's global NoColor switch.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format writes the outcome label and message to w.
func (f *TextFormatter) Format(res *dedup.Result, w io.Writer) error {
	label := outcomeColor(res.Outcome).Sprintf("[%s]", res.Outcome)
	if _, err := fmt.Fprintf(w, "%s %s\n", label, res.Message()); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

func outcomeColor(o decision.Outcome) *color.Color {
	switch o {
	case decision.Duplicate:
		return color.New(color.FgRed, color.Bold)
	case decision.BelowThreshold:
		return color.New(color.FgYellow)
	case decision.NoDuplicate, decision.NoIncidents:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}
