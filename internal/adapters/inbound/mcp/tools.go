package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unitrun/unitrun/internal/adapters/outbound/cmake"
	configloader "github.com/unitrun/unitrun/internal/adapters/outbound/config"
	"github.com/unitrun/unitrun/internal/adapters/outbound/execrunner"
	"github.com/unitrun/unitrun/internal/adapters/outbound/gitinfo"
	"github.com/unitrun/unitrun/internal/adapters/outbound/lcov"
	"github.com/unitrun/unitrun/internal/adapters/outbound/reportwriter"
	"github.com/unitrun/unitrun/internal/adapters/outbound/scanner"
	"github.com/unitrun/unitrun/internal/adapters/outbound/stager"
	"github.com/unitrun/unitrun/internal/application"
	"github.com/unitrun/unitrun/internal/domain"
)

// registerTools registers all unitrun MCP tools on the given server.
func registerTools(s *server.MCPServer, repoPath string) {
	// 1. unitrun_discover
	s.AddTool(
		mcplib.NewTool("unitrun_discover",
			mcplib.WithDescription("List AI-generated tests whose compilation reports mark them as compiling, plus any report files that could not be mapped to a test file"),
		),
		handleDiscover(repoPath),
	)

	// 2. unitrun_run
	s.AddTool(
		mcplib.NewTool("unitrun_run",
			mcplib.WithDescription("Build, execute and cover every compilable AI-generated test; returns the full run report as JSON"),
			mcplib.WithString("output",
				mcplib.Description("Workspace directory relative to the repo root (default: build)"),
			),
		),
		handleRun(repoPath),
	)
}

func newRunService() *application.RunService {
	return application.NewRunService(
		configloader.New(),
		scanner.New(),
		stager.New(),
		cmake.NewGenerator(),
		cmake.NewDriver(),
		execrunner.New(),
		lcov.New(),
		reportwriter.New(),
		gitinfo.New(),
	)
}

func handleDiscover(repoPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := configloader.New().Load(repoPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading configuration: %v", err)), nil
		}
		scan, err := scanner.New().Scan(repoPath, cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(scan)
	}
}

func handleRun(repoPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		output := request.GetString("output", "build")

		report, err := newRunService().Run(ctx, application.RunOptions{
			RepoPath:  repoPath,
			OutputDir: output,
			Progress:  io.Discard,
		})
		if errors.Is(err, domain.ErrNoCompilableTests) {
			// Still a reportable outcome: the caller sees zero results and
			// any unmapped report files.
			return jsonResult(report)
		}
		if err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

// jsonResult marshals v as indented JSON tool output.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
