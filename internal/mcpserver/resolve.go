// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes phishdedup's duplicate check and text scoring as tools over
// stdio transport.
package mcpserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveInput resolves a path the tool reads from to an absolute,
// symlink-resolved path. The file must exist and must not be a directory.
func ResolveInput(path string) (string, error) {
	absPath, err := absolute(path)
	if err != nil {
		return "", err
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q is a directory", path)
	}
	return absPath, nil
}

// ResolveOutput resolves a path the tool appends to. The file may not exist
// yet, but an existing path must not be a directory.
func ResolveOutput(path string) (string, error) {
	absPath, err := absolute(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}
	info, err := os.Stat(absPath)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("%q is a directory", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("cannot stat %q: %w", path, err)
	}
	return absPath, nil
}

func absolute(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path %q contains a null byte", path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	return absPath, nil
}
