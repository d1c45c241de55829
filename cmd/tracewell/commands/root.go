// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for correlate, insights, schedule, mcp, and version
package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracewell/tracewell/internal/logging"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracewell",
		Short: "Health pattern discovery and daily insight generation",
		Long: `Tracewell mines daily health logs for lagged factor-to-symptom
relationships and turns them into personalized daily insights.

The correlation sweep runs over each user's full log history; the insight
pipeline assembles a context snapshot, sends it to a reasoning service, and
falls back to deterministic summaries when that service is slow or unavailable.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init()
			if quiet {
				logrus.SetLevel(logrus.WarnLevel)
			} else if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewCorrelateCmd())
	cmd.AddCommand(NewInsightsCmd())
	cmd.AddCommand(NewScheduleCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
