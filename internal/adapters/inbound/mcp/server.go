// Package mcp exposes unitrun over the Model Context Protocol so AI coding
// assistants can discover compilable tests and trigger runs.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewUnitrunMCPServer creates a new MCP server with all unitrun tools
// registered. The repoPath is the root directory of the C repository.
func NewUnitrunMCPServer(repoPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"unitrun",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, repoPath)

	return s
}
