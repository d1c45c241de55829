// ABOUTME: Batch orchestrator running the per-user insight pipeline
// ABOUTME: Fixed-size concurrent groups with no-throw semantics per user
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tracewell/tracewell/internal/config"
	"github.com/tracewell/tracewell/internal/insight"
	"github.com/tracewell/tracewell/internal/llm"
	"github.com/tracewell/tracewell/internal/logging"
	"github.com/tracewell/tracewell/internal/models"
	"github.com/tracewell/tracewell/internal/storage"
)

// Per-user pipeline states
const (
	StateGathering    = "gathering"
	StateInterpreting = "interpreting"
	StateComplete     = "complete"
	StateFallback     = "fallback"
	StateDelivered    = "delivered"
)

// ContextSource assembles the per-user context snapshot
type ContextSource interface {
	Gather(userID, date string) (*models.InsightContext, error)
}

// Generator produces an interpretation outcome for a context snapshot
type Generator interface {
	Interpret(ctx context.Context, ictx *models.InsightContext) llm.Result
}

// BatchReport aggregates one batch run. Processed counts reasoning-service
// successes, Fallbacks counts any fallback path, Errors counts users whose
// pipeline failed outright.
type BatchReport struct {
	Processed   int `json:"processed"`
	Fallbacks   int `json:"fallbacks"`
	Errors      int `json:"errors"`
	TotalTokens int `json:"total_tokens"`
}

// UserResult is the outcome for one user's pipeline run
type UserResult struct {
	Status string `json:"status"`
	Tokens int    `json:"tokens"`
}

// Orchestrator wires the aggregator, reasoning adapter, fallback generator,
// and delivery agent into the per-user pipeline
type Orchestrator struct {
	store     *storage.Store
	contexts  ContextSource
	generator Generator
	fallback  *insight.FallbackGenerator
	delivery  *insight.DeliveryAgent
	cfg       *config.Config
}

// New creates an orchestrator
func New(store *storage.Store, contexts ContextSource, generator Generator, delivery *insight.DeliveryAgent, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		store:     store,
		contexts:  contexts,
		generator: generator,
		fallback:  insight.NewFallbackGenerator(),
		delivery:  delivery,
		cfg:       cfg,
	}
}

// RunForAllEligibleUsers processes every eligible user for today in
// fixed-size concurrent groups. One user's failure never aborts siblings;
// the batch always terminates with an aggregate report.
func (o *Orchestrator) RunForAllEligibleUsers(ctx context.Context) (*BatchReport, error) {
	date := time.Now().Format(models.DateLayout)
	log := logging.WithJob("insights")

	users, err := o.store.ListEligibleUsers(o.cfg.MinLogDates)
	if err != nil {
		return nil, fmt.Errorf("failed to select eligible users: %w", err)
	}

	var eligible []string
	for _, userID := range users {
		if o.cfg.AllowsUser(userID) {
			eligible = append(eligible, userID)
		}
	}

	report := &BatchReport{}
	var mu sync.Mutex

	// Groups run one at a time; concurrency inside a group is bounded by
	// the batch size, which bounds simultaneous reasoning-service calls
	for start := 0; start < len(eligible); start += o.cfg.BatchSize {
		end := start + o.cfg.BatchSize
		if end > len(eligible) {
			end = len(eligible)
		}

		var wg sync.WaitGroup
		for _, userID := range eligible[start:end] {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						report.Errors++
						mu.Unlock()
						logging.WithUser(userID, date).Errorf("pipeline panicked: %v", r)
					}
				}()

				result, err := o.processUser(ctx, userID, date, o.cfg.ForceFallback)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					report.Errors++
					logging.WithUser(userID, date).WithError(err).Error("pipeline failed")
					return
				}
				report.TotalTokens += result.Tokens
				if result.Status == StateComplete {
					report.Processed++
				} else {
					report.Fallbacks++
				}
			}(userID)
		}
		wg.Wait()
	}

	log.WithField("processed", report.Processed).
		WithField("fallbacks", report.Fallbacks).
		WithField("errors", report.Errors).
		WithField("total_tokens", report.TotalTokens).
		Info("insight batch finished")
	return report, nil
}

// RunForUser runs the pipeline for one (user, date) on demand. The
// reasoning service is always attempted regardless of the forced-fallback
// switch.
func (o *Orchestrator) RunForUser(ctx context.Context, userID, date string) (*UserResult, error) {
	return o.processUser(ctx, userID, date, false)
}

// processUser walks one user through gathering → interpreting →
// {complete | fallback} → delivered
func (o *Orchestrator) processUser(ctx context.Context, userID, date string, forceFallback bool) (*UserResult, error) {
	log := logging.WithUser(userID, date)

	log.WithField("state", StateGathering).Debug("gathering context")
	ictx, err := o.contexts.Gather(userID, date)
	if err != nil {
		return nil, fmt.Errorf("context gathering failed: %w", err)
	}

	var (
		chosen *models.Insight
		prov   insight.Provenance
		tokens int
		status string
	)

	if forceFallback {
		chosen = o.fallback.Generate(ictx)
		prov = insight.Provenance{
			Source:          models.SourceFallback,
			FailureReason:   "fallback_forced",
			PipelineVersion: o.cfg.PipelineVersion,
		}
		status = StateFallback
	} else {
		log.WithField("state", StateInterpreting).Debug("interpreting context")
		result := o.generator.Interpret(ctx, ictx)

		if result.Kind == llm.OutcomeOK {
			chosen = result.Insight
			tokens = result.Usage.TotalTokens
			prov = insight.Provenance{
				Source:           models.SourceReasoning,
				PromptTokens:     result.Usage.PromptTokens,
				CompletionTokens: result.Usage.CompletionTokens,
				TotalTokens:      result.Usage.TotalTokens,
				LatencyMS:        result.LatencyMS,
				PipelineVersion:  o.cfg.PipelineVersion,
			}
			status = StateComplete
		} else {
			log.WithField("outcome", string(result.Kind)).WithError(result.Err).
				Warn("reasoning failed, using fallback")
			chosen = o.fallback.Generate(ictx)
			prov = insight.Provenance{
				Source:          models.SourceFallback,
				FailureReason:   string(result.Kind),
				LatencyMS:       result.LatencyMS,
				PipelineVersion: o.cfg.PipelineVersion,
			}
			status = StateFallback
		}
	}

	if _, err := o.delivery.Deliver(userID, date, chosen, prov); err != nil {
		return nil, fmt.Errorf("delivery failed: %w", err)
	}
	log.WithField("state", StateDelivered).WithField("status", status).Debug("insight delivered")

	return &UserResult{Status: status, Tokens: tokens}, nil
}
