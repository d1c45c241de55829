// ABOUTME: Main entry point for the tracewell MCP server with stdio transport
// ABOUTME: Initializes storage, pipeline, and MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tracewell/tracewell/internal/config"
	"github.com/tracewell/tracewell/internal/insight"
	"github.com/tracewell/tracewell/internal/llm"
	"github.com/tracewell/tracewell/internal/logging"
	"github.com/tracewell/tracewell/internal/mcp"
	"github.com/tracewell/tracewell/internal/pipeline"
	"github.com/tracewell/tracewell/internal/storage"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	adapter, err := llm.NewOpenAIAdapter(cfg.OpenAIKey, llm.AdapterConfig{
		Model:      cfg.ChatModel,
		Timeout:    cfg.InsightTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize reasoning adapter: %v", err)
	}

	aggregator := insight.NewAggregator(store)
	delivery := insight.NewDeliveryAgent(store, insight.DefaultProjections(store)...)
	orchestrator := pipeline.New(store, aggregator, adapter, delivery, cfg)

	server := mcpserver.NewMCPServer(
		"Tracewell Insights",
		"0.1.0",
	)
	mcp.RegisterTools(server, store, orchestrator)

	log.Println("Tracewell MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
