// ABOUTME: Centralized configuration for the insight pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tracewell/tracewell/internal/storage/sqlite"
)

// Config holds all configuration for the tracewell pipeline
type Config struct {
	// Storage settings
	DBPath string

	// OpenAI settings
	OpenAIKey  string
	ChatModel  string
	MaxRetries int
	RetryDelay time.Duration

	// Insight pipeline settings
	InsightTimeout  time.Duration
	BatchSize       int
	MinLogDates     int
	ForceFallback   bool
	UserAllowlist   []string
	PipelineVersion string

	// Batch cadences (cron expressions)
	CorrelationCron string
	InsightCron     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:          getEnv("TRACEWELL_DB_PATH", sqlite.DefaultDBPath()),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("TRACEWELL_OPENAI_MODEL", "gpt-4o-mini"),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 2),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		InsightTimeout:  getEnvDuration("INSIGHT_TIMEOUT", 45*time.Second),
		BatchSize:       getEnvInt("INSIGHT_BATCH_SIZE", 5),
		MinLogDates:     getEnvInt("MIN_LOG_DATES", 14),
		ForceFallback:   getEnvBool("FORCE_FALLBACK", false),
		UserAllowlist:   getEnvList("INSIGHT_USER_ALLOWLIST"),
		PipelineVersion: getEnv("PIPELINE_VERSION", "v1"),
		CorrelationCron: getEnv("CORRELATION_CRON", "0 3 * * *"),
		InsightCron:     getEnv("INSIGHT_CRON", "30 4 * * *"),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration constraints
func (c *Config) Validate() error {
	if c.BatchSize < 1 || c.BatchSize > 50 {
		return fmt.Errorf("INSIGHT_BATCH_SIZE must be 1-50, got %d", c.BatchSize)
	}
	if c.MinLogDates < 1 {
		return fmt.Errorf("MIN_LOG_DATES must be positive, got %d", c.MinLogDates)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.InsightTimeout <= 0 {
		return fmt.Errorf("INSIGHT_TIMEOUT must be positive, got %v", c.InsightTimeout)
	}
	return nil
}

// AllowsUser reports whether the allow-list admits a user.
// An empty allow-list admits everyone.
func (c *Config) AllowsUser(userID string) bool {
	if len(c.UserAllowlist) == 0 {
		return true
	}
	for _, id := range c.UserAllowlist {
		if id == userID {
			return true
		}
	}
	return false
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
