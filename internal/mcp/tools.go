// ABOUTME: MCP tool definitions and registration for the tracewell server
// ABOUTME: Defines JSON schemas for the insight and correlation tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tracewell/tracewell/internal/pipeline"
	"github.com/tracewell/tracewell/internal/storage"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *storage.Store, orchestrator *pipeline.Orchestrator) *Handlers {
	handlers := &Handlers{
		store:        store,
		orchestrator: orchestrator,
	}

	// 1. generate_insight - run the pipeline for one user and date
	server.AddTool(mcp.Tool{
		Name:        "generate_insight",
		Description: "Generate a daily insight for a user. Runs context gathering, interpretation, and delivery; falls back to deterministic summaries when the reasoning service is unavailable.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User to generate the insight for",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Target date in YYYY-MM-DD form (default: today)",
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.GenerateInsight)

	// 2. get_insight - fetch a stored insight
	server.AddTool(mcp.Tool{
		Name:        "get_insight",
		Description: "Fetch the stored insight for a user and date, including its display fields and provenance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose insight to fetch",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Target date in YYYY-MM-DD form (default: today)",
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.GetInsight)

	// 3. list_correlations - list discovered factor/symptom relationships
	server.AddTool(mcp.Tool{
		Name:        "list_correlations",
		Description: "List a user's discovered factor-to-symptom relationships ordered by effect size.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose correlations to list",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of correlations to return (default: 15)",
					"default":     15,
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.ListCorrelations)

	return handlers
}
