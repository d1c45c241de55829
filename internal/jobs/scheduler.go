// ABOUTME: Cron scheduler wiring the correlation sweep and the nightly
// ABOUTME: insight batch to their configured schedules
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tracewell/tracewell/internal/config"
	"github.com/tracewell/tracewell/internal/correlation"
	"github.com/tracewell/tracewell/internal/logging"
	"github.com/tracewell/tracewell/internal/pipeline"
)

// Scheduler owns the background cron jobs. Schedules are UTC cron
// expressions from config; the correlation sweep is expected to run
// before the insight batch so fresh relationships feed the prompts.
type Scheduler struct {
	scheduler    gocron.Scheduler
	correlations *correlation.Runner
	insights     *pipeline.Orchestrator
	cfg          *config.Config
}

// NewScheduler creates a stopped scheduler with both jobs registered
func NewScheduler(correlations *correlation.Runner, insights *pipeline.Orchestrator, cfg *config.Config) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		scheduler:    sched,
		correlations: correlations,
		insights:     insights,
		cfg:          cfg,
	}

	if _, err := sched.NewJob(
		gocron.CronJob(cfg.CorrelationCron, false),
		gocron.NewTask(s.runCorrelations),
		gocron.WithName("correlation-sweep"),
	); err != nil {
		return nil, fmt.Errorf("failed to register correlation job: %w", err)
	}

	if _, err := sched.NewJob(
		gocron.CronJob(cfg.InsightCron, false),
		gocron.NewTask(s.runInsights),
		gocron.WithName("insight-batch"),
	); err != nil {
		return nil, fmt.Errorf("failed to register insight job: %w", err)
	}

	return s, nil
}

// Start begins executing jobs on their schedules
func (s *Scheduler) Start() {
	s.scheduler.Start()
	logging.WithJob("scheduler").
		WithField("correlation_cron", s.cfg.CorrelationCron).
		WithField("insight_cron", s.cfg.InsightCron).
		Info("scheduler started")
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) runCorrelations() {
	log := logging.WithJob("correlation-sweep")
	report, err := s.correlations.RunAll()
	if err != nil {
		log.WithError(err).Error("correlation sweep failed")
		return
	}
	log.WithField("users", report.Users).
		WithField("skipped", report.Skipped).
		WithField("records", report.Records).
		WithField("errors", report.Errors).
		Info("correlation sweep finished")
}

func (s *Scheduler) runInsights() {
	log := logging.WithJob("insight-batch")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := s.insights.RunForAllEligibleUsers(ctx)
	if err != nil {
		log.WithError(err).Error("insight batch failed")
		return
	}
	log.WithField("processed", report.Processed).
		WithField("fallbacks", report.Fallbacks).
		WithField("errors", report.Errors).
		Info("insight batch finished")
}
