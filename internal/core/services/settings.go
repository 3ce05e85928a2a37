package services

import (
	"fmt"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceType      = "source.type"
	keySourcePath      = "source.path"
	keySourceEndpoint  = "source.endpoint"
	keySourceBucket    = "source.bucket"
	keySourceRegion    = "source.region"
	keySourceAccessKey = "source.access_key"
	keySourceSecretKey = "source.secret_key"
	keySourceUseSSL    = "source.use_ssl"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedBatch      = "embedding.batch_size"
	keyEmbedConcurrent = "embedding.max_concurrency"
	keyEmbedRPM        = "embedding.requests_per_minute"
	keyEmbedAttempts   = "embedding.max_attempts"
	keySummaryProvider = "summary.provider"
	keySummaryModel    = "summary.model"
	keySummaryBaseURL  = "summary.base_url"
	keySummaryAPIKey   = "summary.api_key"
	keySummaryTokens   = "summary.max_tokens"
	keyVectorBackend   = "vector.backend"
	keyVectorDSN       = "vector.dsn"
	keyVectorPath      = "vector.path"
	keyRankPolicy      = "rank.policy"
	keyIngestWorkers   = "ingest.workers"
	keyIngestChunkSize = "ingest.chunk_size"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Source: domain.SourceSettings{
			Type:      s.getString(keySourceType, defaults.Source.Type),
			Path:      s.configStore.GetString(keySourcePath),
			Endpoint:  s.configStore.GetString(keySourceEndpoint),
			Bucket:    s.configStore.GetString(keySourceBucket),
			Region:    s.getString(keySourceRegion, defaults.Source.Region),
			AccessKey: s.configStore.GetString(keySourceAccessKey),
			SecretKey: s.configStore.GetString(keySourceSecretKey),
			UseSSL:    s.getBool(keySourceUseSSL, defaults.Source.UseSSL),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.configStore.GetInt(keyEmbedBatch),
			MaxConcurrency:    s.configStore.GetInt(keyEmbedConcurrent),
			RequestsPerMinute: s.configStore.GetInt(keyEmbedRPM),
			MaxAttempts:       s.configStore.GetInt(keyEmbedAttempts),
		},
		Summary: domain.SummarySettings{
			Provider:  s.getProvider(keySummaryProvider, defaults.Summary.Provider),
			Model:     s.getString(keySummaryModel, defaults.Summary.Model),
			BaseURL:   s.configStore.GetString(keySummaryBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keySummaryAPIKey),
			MaxTokens: s.configStore.GetInt(keySummaryTokens),
		},
		Vector: domain.VectorSettings{
			Backend: s.getBackend(defaults.Vector.Backend),
			DSN:     s.configStore.GetString(keyVectorDSN),
			Path:    s.configStore.GetString(keyVectorPath),
		},
		Rank: domain.RankSettings{
			Policy: s.getPolicy(defaults.Rank.Policy),
		},
		Ingest: domain.IngestSettings{
			Workers:   s.configStore.GetInt(keyIngestWorkers),
			ChunkSize: s.configStore.GetInt(keyIngestChunkSize),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save source settings
	if err := s.configStore.Set(keySourceType, settings.Source.Type); err != nil {
		return fmt.Errorf("save source type: %w", err)
	}
	if err := s.configStore.Set(keySourcePath, settings.Source.Path); err != nil {
		return fmt.Errorf("save source path: %w", err)
	}
	if err := s.configStore.Set(keySourceEndpoint, settings.Source.Endpoint); err != nil {
		return fmt.Errorf("save source endpoint: %w", err)
	}
	if err := s.configStore.Set(keySourceBucket, settings.Source.Bucket); err != nil {
		return fmt.Errorf("save source bucket: %w", err)
	}
	if err := s.configStore.Set(keySourceRegion, settings.Source.Region); err != nil {
		return fmt.Errorf("save source region: %w", err)
	}
	if settings.Source.AccessKey != "" {
		if err := s.configStore.Set(keySourceAccessKey, settings.Source.AccessKey); err != nil {
			return fmt.Errorf("save source access_key: %w", err)
		}
	}
	if settings.Source.SecretKey != "" {
		if err := s.configStore.Set(keySourceSecretKey, settings.Source.SecretKey); err != nil {
			return fmt.Errorf("save source secret_key: %w", err)
		}
	}
	if err := s.configStore.Set(keySourceUseSSL, settings.Source.UseSSL); err != nil {
		return fmt.Errorf("save source use_ssl: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedBatch, settings.Embedding.BatchSize); err != nil {
		return fmt.Errorf("save embedding batch_size: %w", err)
	}
	if err := s.configStore.Set(keyEmbedConcurrent, settings.Embedding.MaxConcurrency); err != nil {
		return fmt.Errorf("save embedding max_concurrency: %w", err)
	}
	if err := s.configStore.Set(keyEmbedRPM, settings.Embedding.RequestsPerMinute); err != nil {
		return fmt.Errorf("save embedding requests_per_minute: %w", err)
	}
	if err := s.configStore.Set(keyEmbedAttempts, settings.Embedding.MaxAttempts); err != nil {
		return fmt.Errorf("save embedding max_attempts: %w", err)
	}

	// Save summary settings
	if err := s.configStore.Set(keySummaryProvider, settings.Summary.Provider.String()); err != nil {
		return fmt.Errorf("save summary provider: %w", err)
	}
	if err := s.configStore.Set(keySummaryModel, settings.Summary.Model); err != nil {
		return fmt.Errorf("save summary model: %w", err)
	}
	if err := s.configStore.Set(keySummaryBaseURL, settings.Summary.BaseURL); err != nil {
		return fmt.Errorf("save summary base_url: %w", err)
	}
	if settings.Summary.APIKey != "" {
		if err := s.configStore.Set(keySummaryAPIKey, settings.Summary.APIKey); err != nil {
			return fmt.Errorf("save summary api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keySummaryTokens, settings.Summary.MaxTokens); err != nil {
		return fmt.Errorf("save summary max_tokens: %w", err)
	}

	// Save vector settings
	if err := s.configStore.Set(keyVectorBackend, settings.Vector.Backend.String()); err != nil {
		return fmt.Errorf("save vector backend: %w", err)
	}
	if err := s.configStore.Set(keyVectorDSN, settings.Vector.DSN); err != nil {
		return fmt.Errorf("save vector dsn: %w", err)
	}
	if err := s.configStore.Set(keyVectorPath, settings.Vector.Path); err != nil {
		return fmt.Errorf("save vector path: %w", err)
	}

	// Save rank settings
	if err := s.configStore.Set(keyRankPolicy, settings.Rank.Policy.String()); err != nil {
		return fmt.Errorf("save rank policy: %w", err)
	}

	// Save ingest settings
	if err := s.configStore.Set(keyIngestWorkers, settings.Ingest.Workers); err != nil {
		return fmt.Errorf("save ingest workers: %w", err)
	}
	if err := s.configStore.Set(keyIngestChunkSize, settings.Ingest.ChunkSize); err != nil {
		return fmt.Errorf("save ingest chunk_size: %w", err)
	}

	return nil
}

// SetSource configures the paper source.
func (s *SettingsService) SetSource(src domain.SourceSettings) error {
	switch src.Type {
	case "filesystem":
		if src.Path == "" {
			return fmt.Errorf("path required for the filesystem source")
		}
	case "s3":
		if src.Endpoint == "" {
			return fmt.Errorf("endpoint required for the s3 source")
		}
		if src.Bucket == "" {
			return fmt.Errorf("bucket required for the s3 source")
		}
	default:
		return fmt.Errorf("invalid source type: %s", src.Type)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if src.Region == "" {
		src.Region = settings.Source.Region
	}
	settings.Source = src

	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetSummaryProvider configures the summarisation provider.
func (s *SettingsService) SetSummaryProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid summary provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Summary.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Summary.Model = model
	} else {
		defaults := domain.DefaultSummaryModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Summary.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Summary.BaseURL == "" {
			settings.Summary.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Summary.BaseURL = ""
	}

	// Set API key
	settings.Summary.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorBackend selects the vector store backend.
func (s *SettingsService) SetVectorBackend(backend domain.VectorBackend, dsn, path string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", backend)
	}
	if backend == domain.VectorBackendPgvector && dsn == "" {
		return fmt.Errorf("dsn required for the pgvector backend")
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Vector.Backend = backend
	settings.Vector.DSN = dsn
	settings.Vector.Path = path

	return s.Save(settings)
}

// SetScorePolicy updates the ranking aggregation policy.
func (s *SettingsService) SetScorePolicy(policy domain.ScorePolicy) error {
	if !policy.IsValid() {
		return fmt.Errorf("invalid score policy: %s", policy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Rank.Policy = policy

	return s.Save(settings)
}

// Validate checks if current settings can support ingestion and ranking.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Check source configuration
	switch settings.Source.Type {
	case "filesystem":
		if settings.Source.Path == "" {
			return fmt.Errorf("filesystem source requires a path")
		}
	case "s3":
		if settings.Source.Endpoint == "" || settings.Source.Bucket == "" {
			return fmt.Errorf("s3 source requires an endpoint and a bucket")
		}
	default:
		return fmt.Errorf("invalid source type: %s", settings.Source.Type)
	}

	// Ingestion and ranking both embed text, so an embedding provider
	// is mandatory.
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}

	// Summaries are optional, but a half-configured provider is a
	// mistake worth reporting.
	if settings.Summary.Provider != "" && !settings.Summary.IsConfigured() {
		return fmt.Errorf("summary provider %s is missing its API key", settings.Summary.Provider)
	}

	if settings.Vector.Backend == domain.VectorBackendPgvector && settings.Vector.DSN == "" {
		return fmt.Errorf("pgvector backend requires a dsn")
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(settings.Embedding)
}

// ValidateSummaryConfig validates the current summarisation configuration by pinging the provider.
func (s *SettingsService) ValidateSummaryConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateSummary(settings.Summary)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	val := s.configStore.GetString(keyVectorBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.VectorBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getPolicy(defaultVal domain.ScorePolicy) domain.ScorePolicy {
	val := s.configStore.GetString(keyRankPolicy)
	if val == "" {
		return defaultVal
	}
	policy := domain.ScorePolicy(val)
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
