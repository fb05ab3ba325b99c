package cli

import (
	mcpadapter "github.com/unitrun/unitrun/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the unitrun MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start unitrun MCP server (stdio)",
		Long: "Start the unitrun MCP server using stdio transport. This lets AI coding " +
			"assistants discover compilable tests and trigger build/run/coverage cycles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if repoPath == "" {
				repoPath = "."
			}
			s := mcpadapter.NewUnitrunMCPServer(repoPath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo-path", "", "Repository path (defaults to current working directory)")

	return cmd
}
