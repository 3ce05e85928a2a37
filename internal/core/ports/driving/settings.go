package driving

import "github.com/custodia-labs/paperrank/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSource configures the paper source.
	SetSource(src domain.SourceSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetSummaryProvider configures the summarisation provider.
	SetSummaryProvider(provider domain.AIProvider, model, apiKey string) error

	// SetVectorBackend selects the vector store backend.
	SetVectorBackend(backend domain.VectorBackend, dsn, path string) error

	// SetScorePolicy updates the ranking aggregation policy.
	SetScorePolicy(policy domain.ScorePolicy) error

	// Validate checks if current settings can support ingestion and ranking.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateSummaryConfig validates the current summarisation configuration by pinging the provider.
	ValidateSummaryConfig() error
}
