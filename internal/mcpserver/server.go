// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// New creates a new MCP server with phishdedup's tools registered.
func New(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "phishdedup",
		Title:   "Phishdedup: phishing incident duplicate detection",
		Version: version,
	}, nil)
	registerTools(server)
	return server
}

// Run creates a server and serves it on transport until ctx is done or the
// client disconnects.
func Run(ctx context.Context, version string, transport mcp.Transport) error {
	return New(version).Run(ctx, transport)
}
