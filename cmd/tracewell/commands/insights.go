// ABOUTME: CLI command to run the insight pipeline
// ABOUTME: Generates insights for one user on demand or for all eligible users
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracewell/tracewell/internal/models"
)

var (
	insightsUser string
	insightsDate string
)

// NewInsightsCmd creates the insights command
func NewInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate daily insights",
		Long: `Generate daily insights for all eligible users, or for a single user
and date on demand.

The on-demand path always attempts the reasoning service, even when the
forced-fallback switch is set for batch runs.

Examples:
  tracewell insights
  tracewell insights --user usr_123
  tracewell insights --user usr_123 --date 2026-08-30`,
		RunE: runInsights,
	}

	cmd.Flags().StringVar(&insightsUser, "user", "", "Generate for a single user only")
	cmd.Flags().StringVar(&insightsDate, "date", "", "Target date in YYYY-MM-DD form (default: today)")

	return cmd
}

func runInsights(cmd *cobra.Command, args []string) error {
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

	if insightsUser != "" {
		date := insightsDate
		if date == "" {
			date = time.Now().Format(models.DateLayout)
		}
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
		}

		result, err := orchestrator.RunForUser(cmd.Context(), insightsUser, date)
		if err != nil {
			return fmt.Errorf("insight generation failed for %s: %w", insightsUser, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Status: %s (tokens: %d)\n", result.Status, result.Tokens)
		return nil
	}

	if insightsDate != "" {
		return fmt.Errorf("--date requires --user; batch runs always target today")
	}

	report, err := orchestrator.RunForAllEligibleUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("insight batch failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed: %d\n", report.Processed)
	fmt.Fprintf(cmd.OutOrStdout(), "Fallbacks: %d\n", report.Fallbacks)
	fmt.Fprintf(cmd.OutOrStdout(), "Errors:    %d\n", report.Errors)
	fmt.Fprintf(cmd.OutOrStdout(), "Tokens:    %d\n", report.TotalTokens)
	return nil
}
