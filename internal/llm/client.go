// ABOUTME: Reasoning adapter over the OpenAI chat API with an explicit outcome type
// ABOUTME: Races the call against a timeout; the losing call is abandoned, not cancelled server-side
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/util"
)

// DefaultChatModel is the default model for interpretation requests
const DefaultChatModel = "gpt-4o-mini"

// OutcomeKind classifies an interpretation attempt
type OutcomeKind string

// Outcome kinds; everything but OutcomeOK routes the caller to the fallback path
const (
	OutcomeOK        OutcomeKind = "ok"
	OutcomeTimedOut  OutcomeKind = "timed_out"
	OutcomeMalformed OutcomeKind = "malformed"
	OutcomeTransport OutcomeKind = "transport_error"
)

// Usage is the token accounting for one interpretation call
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the explicit outcome of one interpretation attempt. Kind is
// always set; Insight is non-nil only when Kind is OutcomeOK.
type Result struct {
	Kind      OutcomeKind
	Insight   *models.Insight
	Usage     Usage
	LatencyMS int64
	Err       error
}

// ChatClient is the surface of the OpenAI client the adapter needs.
// Narrow so tests can substitute a fake.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AdapterConfig holds configuration for the reasoning adapter
type AdapterConfig struct {
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Adapter sends context snapshots to the reasoning service and parses the
// structured response
type Adapter struct {
	client     ChatClient
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewAdapter creates an adapter around an existing chat client
func NewAdapter(client ChatClient, cfg AdapterConfig) *Adapter {
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Adapter{
		client:     client,
		model:      model,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// NewOpenAIAdapter creates an adapter backed by the OpenAI API
func NewOpenAIAdapter(apiKey string, cfg AdapterConfig) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return NewAdapter(openai.NewClient(apiKey), cfg), nil
}

// Interpret sends the context to the reasoning service and returns an
// explicit result. The call races the configured timeout: whichever settles
// first wins, and the losing call is not actively cancelled server-side.
func (a *Adapter) Interpret(ctx context.Context, ictx *models.InsightContext) Result {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resultCh := make(chan Result, 1)
	go func() {
		resultCh <- a.interpretWithRetries(callCtx, ictx, start)
	}()

	select {
	case res := <-resultCh:
		return res
	case <-callCtx.Done():
		return Result{
			Kind:      OutcomeTimedOut,
			LatencyMS: time.Since(start).Milliseconds(),
			Err:       fmt.Errorf("reasoning service timed out after %v", a.timeout),
		}
	}
}

// interpretWithRetries retries transport errors with backoff; malformed
// responses are retried too since the service is nondeterministic
func (a *Adapter) interpretWithRetries(ctx context.Context, ictx *models.InsightContext, start time.Time) Result {
	var last Result
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(a.retryDelay, attempt)):
			case <-ctx.Done():
				last.LatencyMS = time.Since(start).Milliseconds()
				return last
			}
		}
		last = a.interpretOnce(ctx, ictx)
		last.LatencyMS = time.Since(start).Milliseconds()
		if last.Kind == OutcomeOK {
			return last
		}
		if ctx.Err() != nil {
			return last
		}
	}
	return last
}

func (a *Adapter) interpretOnce(ctx context.Context, ictx *models.InsightContext) Result {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(ictx)},
		},
		Temperature: 0.4,
	})
	if err != nil {
		kind := OutcomeTransport
		if ctx.Err() == context.DeadlineExceeded {
			kind = OutcomeTimedOut
		}
		return Result{Kind: kind, Err: fmt.Errorf("reasoning service call failed: %w", err)}
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	if len(resp.Choices) == 0 {
		return Result{Kind: OutcomeMalformed, Usage: usage, Err: fmt.Errorf("no completion choices returned")}
	}

	insight, err := ParseInsight(resp.Choices[0].Message.Content)
	if err != nil {
		return Result{Kind: OutcomeMalformed, Usage: usage, Err: err}
	}

	return Result{Kind: OutcomeOK, Insight: insight, Usage: usage}
}

// ParseInsight parses the service response into an Insight, tolerating
// incidental code-fence wrapping. Missing keys get empty defaults rather
// than failing.
func ParseInsight(content string) (*models.Insight, error) {
	cleaned := StripCodeFence(content)

	var insight models.Insight
	if err := json.Unmarshal([]byte(cleaned), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse insight JSON: %w", err)
	}

	insight.EnsureDefaults()
	return &insight, nil
}

// StripCodeFence removes a wrapping markdown code fence if present
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "json" || firstLine == "" {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
