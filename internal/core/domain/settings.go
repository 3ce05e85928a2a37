package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or summaries.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllSummaryProviders returns providers that support summarisation.
func AllSummaryProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultSummaryModels returns default models for each summarisation provider.
func DefaultSummaryModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions maps known embedding models to their vector size.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-large":  3072,
		"text-embedding-3-small":  1536,
		"text-embedding-ada-002":  1536,
		"nomic-embed-text":        768,
		"mxbai-embed-large":       1024,
		"snowflake-arctic-embed2": 1024,
	}
}

// VectorBackend identifies the vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores vectors as blobs alongside metadata.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendPgvector stores vectors in Postgres with pgvector.
	VectorBackendPgvector VectorBackend = "pgvector"

	// VectorBackendChromem stores vectors in an embedded chromem database.
	VectorBackendChromem VectorBackend = "chromem"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendPgvector, VectorBackendChromem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// ScorePolicy identifies how pairwise chunk similarities aggregate to a
// single per-paper score.
type ScorePolicy string

// Available score policies.
const (
	// ScorePolicyMean averages all seed-chunk against paper-chunk
	// similarities; every chunk of every seed contributes equally.
	ScorePolicyMean ScorePolicy = "mean"

	// ScorePolicyMax takes the best single pairwise similarity.
	ScorePolicyMax ScorePolicy = "max"
)

// IsValid returns true if the policy is recognised.
func (p ScorePolicy) IsValid() bool {
	return p == ScorePolicyMean || p == ScorePolicyMax
}

// String returns the string representation.
func (p ScorePolicy) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize caps how many texts go into one provider request.
	BatchSize int

	// MaxConcurrency caps in-flight provider requests.
	MaxConcurrency int

	// RequestsPerMinute throttles provider calls, 0 = unthrottled.
	RequestsPerMinute int

	// MaxAttempts bounds retries for transient provider failures.
	MaxAttempts int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// SummarySettings holds summarisation provider configuration.
type SummarySettings struct {
	// Provider is the summarisation service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens bounds the generated summary length.
	MaxTokens int
}

// IsConfigured returns true if the summarisation provider is set up.
func (s SummarySettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// SourceSettings holds paper source configuration.
type SourceSettings struct {
	// Type selects the source adapter, "s3" or "filesystem".
	Type string

	// Path is the root directory for the filesystem source.
	Path string

	// Endpoint is the S3-compatible endpoint host.
	Endpoint string

	// Bucket is the S3 bucket holding seeds/ and corpus/ prefixes.
	Bucket string

	// Region is the S3 region.
	Region string

	// AccessKey is the S3 access key.
	AccessKey string

	// SecretKey is the S3 secret key.
	SecretKey string

	// UseSSL toggles TLS for the S3 endpoint.
	UseSSL bool
}

// VectorSettings holds vector store configuration.
type VectorSettings struct {
	// Backend selects the vector store implementation.
	Backend VectorBackend

	// DSN is the Postgres connection string for the pgvector backend.
	DSN string

	// Path is the database directory for the chromem backend.
	Path string
}

// RankSettings holds ranking behaviour configuration.
type RankSettings struct {
	// Policy is the similarity aggregation policy.
	Policy ScorePolicy
}

// IngestSettings holds ingestion behaviour configuration.
type IngestSettings struct {
	// Workers caps concurrent per-paper processing.
	Workers int

	// ChunkSize caps chunk length in characters.
	ChunkSize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Source holds paper source settings.
	Source SourceSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Summary holds summarisation provider settings.
	Summary SummarySettings

	// Vector holds vector store settings.
	Vector VectorSettings

	// Rank holds ranking behaviour settings.
	Rank RankSettings

	// Ingest holds ingestion behaviour settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them up explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Source: SourceSettings{
			Type:   "filesystem",
			Region: "us-east-1",
			UseSSL: true,
		},
		Embedding: EmbeddingSettings{},
		Summary:   SummarySettings{},
		Vector: VectorSettings{
			Backend: VectorBackendSQLite,
		},
		Rank: RankSettings{
			Policy: ScorePolicyMean,
		},
		Ingest: IngestSettings{},
	}
}
