package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

var (
	ingestForce   bool
	ingestWatch   bool
	ingestWorkers int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest papers from the configured source",
	Long: `Lists papers under the source's seeds/ and corpus/ prefixes, extracts
and chunks their text, embeds each chunk, and stores vectors and
metadata. Unchanged papers are skipped unless --force is given.

With --watch, keeps running after the initial pass and re-ingests
whenever the source reports a change.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-process papers even when unchanged")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep watching the source and re-ingest on change")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent paper workers (0 = default)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingestion not configured; run 'paperrank settings' to review the source and embedding provider")
	}

	ctx := context.Background()
	opts := driving.IngestOptions{
		Force:   ingestForce,
		Workers: ingestWorkers,
	}

	cmd.Println("Ingesting papers...")
	report, err := ingestor.IngestAll(ctx, opts)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	printIngestReport(cmd, report)

	if !ingestWatch {
		return nil
	}
	if watcher == nil {
		return errors.New("watch not available for the configured source")
	}

	cmd.Println("Watching for changes. Press Ctrl-C to stop.")
	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Watch stopped.")
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestionReport) {
	cmd.Printf("Ingestion complete: %d succeeded, %d skipped, %d failed\n",
		report.Succeeded, report.Skipped, len(report.Failed))
	if len(report.Failed) > 0 {
		cmd.Println()
		cmd.Println("Failures:")
		for _, failure := range report.Failed {
			cmd.Printf("  %s: %s (stage: %s)\n", failure.PaperID, failure.Reason, failure.Stage)
		}
	}
}
