package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

var summaryRefresh bool

var summaryCmd = &cobra.Command{
	Use:   "summary [paper-id]",
	Short: "Show a cached paper summary",
	Long: `Prints the paper's summary, generating it through the configured
provider on first request. --refresh regenerates and overwrites the
cached summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryRefresh, "refresh", false, "regenerate the summary")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summariser == nil {
		return errors.New("summary service not configured")
	}

	summary, err := summariser.Summary(context.Background(), args[0], summaryRefresh)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryUnavailable) {
			return errors.New("no summary provider configured; run 'paperrank settings summary' first")
		}
		return fmt.Errorf("failed to get summary: %w", err)
	}

	cmd.Printf("Summary of %s (%s, generated %s)\n\n",
		summary.PaperID, summary.Model, summary.GeneratedAt.Format("2006-01-02 15:04:05"))
	cmd.Println(summary.Text)
	return nil
}
