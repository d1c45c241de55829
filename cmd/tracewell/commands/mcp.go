// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to query and generate insights via stdio
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tracewell/tracewell/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs tracewell as an MCP (Model Context Protocol) server over stdio,
exposing insight generation and correlation lookup as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  tracewell mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "tracewell": {
  #       "command": "tracewell",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orchestrator, err := buildOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Tracewell Insights",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, store, orchestrator)

	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
