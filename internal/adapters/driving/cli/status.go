package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored papers and configuration state",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the JSON shape of the status command output.
type statusReport struct {
	SeedCount     int            `json:"seed_count"`
	CorpusCount   int            `json:"corpus_count"`
	LastRun       *lastRunReport `json:"last_run,omitempty"`
	Embedding     string         `json:"embedding"`
	Summaries     string         `json:"summaries"`
	VectorBackend string         `json:"vector_backend"`
	Source        string         `json:"source"`
}

type lastRunReport struct {
	Finished  time.Time `json:"finished"`
	Succeeded int       `json:"succeeded"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	status, err := paperService.Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	report := statusReport{
		SeedCount:     status.SeedCount,
		CorpusCount:   status.CorpusCount,
		Embedding:     describeProvider(string(settings.Embedding.Provider), settings.Embedding.Model, settings.Embedding.IsConfigured()),
		Summaries:     describeProvider(string(settings.Summary.Provider), settings.Summary.Model, settings.Summary.IsConfigured()),
		VectorBackend: settings.Vector.Backend.String(),
		Source:        describeSource(settings.Source),
	}
	if status.LastRun != nil {
		report.LastRun = &lastRunReport{
			Finished:  status.LastRun.Finished,
			Succeeded: status.LastRun.Succeeded,
			Skipped:   status.LastRun.Skipped,
			Failed:    status.LastRun.Failed,
		}
	}

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Papers: %d seed, %d corpus\n", report.SeedCount, report.CorpusCount)
	if report.LastRun != nil {
		cmd.Printf("Last ingestion: %s (%d succeeded, %d skipped, %d failed)\n",
			report.LastRun.Finished.Format("2006-01-02 15:04:05"),
			report.LastRun.Succeeded, report.LastRun.Skipped, report.LastRun.Failed)
	} else {
		cmd.Println("Last ingestion: never")
	}
	cmd.Println()
	cmd.Printf("Source:         %s\n", report.Source)
	cmd.Printf("Embedding:      %s\n", report.Embedding)
	cmd.Printf("Summaries:      %s\n", report.Summaries)
	cmd.Printf("Vector backend: %s\n", report.VectorBackend)
	return nil
}

func describeProvider(provider, model string, configured bool) string {
	if !configured {
		return "not configured"
	}
	return fmt.Sprintf("%s (%s)", provider, model)
}

func describeSource(src domain.SourceSettings) string {
	switch src.Type {
	case "s3":
		return fmt.Sprintf("s3 bucket %s at %s", src.Bucket, src.Endpoint)
	case "filesystem":
		if src.Path == "" {
			return "filesystem (no path set)"
		}
		return fmt.Sprintf("filesystem at %s", src.Path)
	default:
		return src.Type
	}
}
