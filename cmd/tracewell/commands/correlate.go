// ABOUTME: CLI command to run the correlation sweep
// ABOUTME: Recomputes factor-to-symptom relationships for one or all users
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracewell/tracewell/internal/correlation"
)

var correlateUser string

// NewCorrelateCmd creates the correlate command
func NewCorrelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Recompute factor-to-symptom correlations",
		Long: `Run the correlation sweep over each eligible user's full log history.

Each user's stored correlations are replaced in a single transaction, so
readers never observe a partially updated set.

Examples:
  tracewell correlate
  tracewell correlate --user usr_123`,
		RunE: runCorrelate,
	}

	cmd.Flags().StringVar(&correlateUser, "user", "", "Recompute for a single user only")

	return cmd
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := correlation.NewRunner(store, cfg.MinLogDates)

	if correlateUser != "" {
		records, err := runner.RunForUser(correlateUser)
		if err != nil {
			return fmt.Errorf("correlation failed for %s: %w", correlateUser, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d correlations for %s\n", records, correlateUser)
		return nil
	}

	report, err := runner.RunAll()
	if err != nil {
		return fmt.Errorf("correlation sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Users analyzed: %d\n", report.Users)
	fmt.Fprintf(cmd.OutOrStdout(), "Users skipped:  %d\n", report.Skipped)
	fmt.Fprintf(cmd.OutOrStdout(), "Records stored: %d\n", report.Records)
	if report.Errors > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Errors:         %d\n", report.Errors)
	}
	return nil
}
