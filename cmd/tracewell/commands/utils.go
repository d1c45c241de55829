// ABOUTME: Shared wiring helpers for CLI commands
// ABOUTME: Consolidates config, store, and pipeline construction
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/tracewell/tracewell/internal/config"
	"github.com/tracewell/tracewell/internal/insight"
	"github.com/tracewell/tracewell/internal/llm"
	"github.com/tracewell/tracewell/internal/pipeline"
	"github.com/tracewell/tracewell/internal/storage"
)

// loadConfig reads .env if present and returns validated configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite store at the configured path
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// buildOrchestrator assembles the full insight pipeline. Requires an OpenAI
// API key; commands that only need storage should not call this.
func buildOrchestrator(cfg *config.Config, store *storage.Store) (*pipeline.Orchestrator, error) {
	adapter, err := llm.NewOpenAIAdapter(cfg.OpenAIKey, llm.AdapterConfig{
		Model:      cfg.ChatModel,
		Timeout:    cfg.InsightTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing reasoning adapter: %w", err)
	}

	aggregator := insight.NewAggregator(store)
	delivery := insight.NewDeliveryAgent(store, insight.DefaultProjections(store)...)
	return pipeline.New(store, aggregator, adapter, delivery, cfg), nil
}
