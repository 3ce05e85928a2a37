// Package cli implements the paperrank command-line interface using
// cobra. Commands talk to the core services through the driving ports;
// Execute wires the full service graph from persisted settings before
// dispatch.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperrank/internal/adapters/driven/ai"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/source"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/paperrank/internal/adapters/driven/vector/pgvector"
	"github.com/custodia-labs/paperrank/internal/chunker"
	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
	"github.com/custodia-labs/paperrank/internal/core/services"
	"github.com/custodia-labs/paperrank/internal/extractors"
	"github.com/custodia-labs/paperrank/internal/extractors/pdf"
	"github.com/custodia-labs/paperrank/internal/extractors/plaintext"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// version is overridden at build time via ldflags.
var version = "dev"

// verbose enables debug logging for all commands.
var verbose bool

// watchRunner is the watch loop surface the ingest command drives.
type watchRunner interface {
	Start(ctx context.Context) error
	Stop()
}

// Services used by the commands. Execute assigns them during wiring;
// tests inject mocks directly. A nil service means its configuration
// is incomplete and the command reports what to fix.
var (
	settingsService driving.SettingsService
	paperService    driving.PaperService
	ingestor        driving.Ingestor
	ranker          driving.Ranker
	summariser      driving.Summariser
	watcher         watchRunner
)

var rootCmd = &cobra.Command{
	Use:   "paperrank",
	Short: "Rank a paper corpus by similarity to seed papers",
	Long: `paperrank ingests research papers from a local directory or an S3
bucket, embeds their text through a configured provider, and ranks the
corpus by semantic similarity to a set of seed papers.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the service graph from persisted settings and runs the
// root command.
func Execute() error {
	if err := initServices(); err != nil {
		rootCmd.PrintErrln("Error:", err.Error())
		return err
	}
	return rootCmd.Execute()
}

// initServices builds the service graph. Only an unreadable config
// store is fatal: any later component that cannot be built leaves its
// dependents nil so the settings commands stay usable for repair.
func initServices() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Metadata store unavailable: %v", err)
		return nil
	}

	vectors, err := openVectorStore(store, settings)
	if err != nil {
		logger.Warn("Vector store unavailable: %v", err)
		logger.Warn("Run 'paperrank settings vector' to reconfigure")
		return nil
	}

	papers := store.PaperStore()
	chunks := store.ChunkStore()
	runs := store.RunStore()

	paperService = services.NewPaperService(papers, chunks, vectors, runs)

	scorer, err := services.NewScorer(settings.Rank.Policy)
	if err != nil {
		return fmt.Errorf("configure scorer: %w", err)
	}
	ranker = services.NewRankingService(papers, vectors, scorer)

	summariser = services.NewSummaryCacheService(
		papers, chunks, store.SummaryStore(),
		buildSummaryService(settings), settings.Summary.MaxTokens)

	if settings.Embedding.IsConfigured() {
		embedder, err := ai.CreateEmbeddingService(settings.Embedding)
		if err != nil {
			logger.Warn("Embedding provider unavailable: %v", err)
			return nil
		}
		paperSource, err := source.Create(settings.Source)
		if err != nil {
			logger.Warn("Paper source unavailable: %v", err)
			return nil
		}
		ingestor = services.NewIngestionService(
			paperSource,
			extractors.NewRegistry(pdf.New(), plaintext.New()),
			chunker.New(chunker.WithMaxSize(settings.Ingest.ChunkSize)),
			embedder, vectors, papers, chunks, runs)
		watcher = services.NewWatchService(paperSource, ingestor)
	}

	return nil
}

// openVectorStore selects the vector backend from settings. The sqlite
// backend reuses the metadata store's database.
func openVectorStore(store *sqlite.Store, settings *domain.AppSettings) (driven.VectorStore, error) {
	switch settings.Vector.Backend {
	case domain.VectorBackendSQLite:
		return store.VectorStore(), nil
	case domain.VectorBackendPgvector:
		dims := domain.EmbeddingDimensions()[settings.Embedding.Model]
		if dims == 0 {
			return nil, fmt.Errorf("unknown embedding model %q: cannot size the pgvector index", settings.Embedding.Model)
		}
		return pgvector.NewVectorStore(settings.Vector.DSN, dims)
	case domain.VectorBackendChromem:
		return chromem.NewVectorStore(settings.Vector.Path)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", settings.Vector.Backend)
	}
}

// buildSummaryService creates the provider client for summaries, or
// nil when no provider is configured. A nil client disables summaries
// without blocking the rest of the CLI.
func buildSummaryService(settings *domain.AppSettings) driven.SummaryService {
	if !settings.Summary.IsConfigured() {
		return nil
	}
	svc, err := ai.CreateSummaryService(settings.Summary)
	if err != nil {
		logger.Warn("Summary provider unavailable: %v", err)
		return nil
	}
	if aware, ok := svc.(driven.PromptStoreAware); ok {
		if prompts, err := file.NewPromptStore(""); err == nil {
			aware.SetPromptStore(prompts)
		} else {
			logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
		}
	}
	return svc
}
