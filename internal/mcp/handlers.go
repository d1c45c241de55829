// ABOUTME: MCP tool handler implementations for the tracewell server
// ABOUTME: Contains handlers with proper error handling for all 3 tools
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/pipeline"
	"github.com/tracewell/tracewell/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store        *storage.Store
	orchestrator *pipeline.Orchestrator
}

// GenerateInsight handles the generate_insight tool
func (h *Handlers) GenerateInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	date := request.GetString("date", time.Now().Format(models.DateLayout))
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date)), nil
	}

	result, err := h.orchestrator.RunForUser(ctx, userID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insight generation failed: %v", err)), nil
	}

	record, err := h.store.GetInsight(userID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read stored insight: %v", err)), nil
	}

	response := map[string]interface{}{
		"status":  result.Status,
		"tokens":  result.Tokens,
		"insight": record,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetInsight handles the get_insight tool
func (h *Handlers) GetInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	date := request.GetString("date", time.Now().Format(models.DateLayout))

	record, err := h.store.GetInsight(userID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read insight: %v", err)), nil
	}
	if record == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no insight stored for %s on %s", userID, date)), nil
	}

	responseJSON, err := json.Marshal(record)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListCorrelations handles the list_correlations tool
func (h *Handlers) ListCorrelations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 15)
	if limit <= 0 {
		limit = 15
	}

	correlations, err := h.store.CorrelationsByEffect(userID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read correlations: %v", err)), nil
	}

	response := map[string]interface{}{
		"user_id":      userID,
		"count":        len(correlations),
		"correlations": correlations,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
