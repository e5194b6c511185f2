package action

import (
	"context"
	"log/slog"
)

// LogSink is a dry-run sink: it logs commands and changes nothing.
type LogSink struct {
	Logger *slog.Logger
}

// CloseAsDuplicate logs cmd at INFO level.
func (s LogSink) CloseAsDuplicate(ctx context.Context, cmd Command) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "dry run: incident would be closed as duplicate",
		"command_id", cmd.ID,
		"incident", cmd.IncidentID,
		"duplicate_of", cmd.DuplicateOf,
		"similarity", cmd.Similarity,
	)
	return nil
}
