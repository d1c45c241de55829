// ABOUTME: CLI command to run the background scheduler
// ABOUTME: Blocks until interrupted, running cron jobs on their schedules
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tracewell/tracewell/internal/correlation"
	"github.com/tracewell/tracewell/internal/jobs"
)

// NewScheduleCmd creates the schedule command
func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the background job scheduler",
		Long: `Run the correlation sweep and the insight batch on their configured
cron schedules (UTC). Blocks until interrupted.

Schedules come from CORRELATION_CRON and INSIGHT_CRON; the defaults run
the sweep at 03:00 and the batch at 04:30 so fresh relationships feed
each night's insights.`,
		RunE: runSchedule,
	}

	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
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

	runner := correlation.NewRunner(store, cfg.MinLogDates)
	scheduler, err := jobs.NewScheduler(runner, orchestrator, cfg)
	if err != nil {
		return fmt.Errorf("initializing scheduler: %w", err)
	}

	scheduler.Start()
	fmt.Fprintln(cmd.OutOrStdout(), "Scheduler running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
	return scheduler.Shutdown()
}
