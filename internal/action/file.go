package action

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davetashner/phishdedup/internal/testable"
)

// FileSink appends each command as one JSON line.
type FileSink struct {
	Path string
	FS   testable.FileSystem
}

// NewFileSink creates a sink appending to path on the real file system.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// CloseAsDuplicate appends cmd to the sink file, creating parent
// directories as needed.
func (s *FileSink) CloseAsDuplicate(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fsys := s.FS
	if fsys == nil {
		fsys = testable.DefaultFS
	}

	line, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	line = append(line, '\n')

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create sink directory: %w", err)
		}
	}
	f, err := fsys.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open sink file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write command: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close sink file: %w", err)
	}
	return nil
}
