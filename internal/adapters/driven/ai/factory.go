// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/paperrank/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/paperrank/internal/adapters/driven/embedding/openai"
	anthropicsum "github.com/custodia-labs/paperrank/internal/adapters/driven/llm/anthropic"
	ollamasum "github.com/custodia-labs/paperrank/internal/adapters/driven/llm/ollama"
	openaisum "github.com/custodia-labs/paperrank/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paperrank settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paperrank settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateSummaryService creates a summary service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateSummaryService(settings domain.SummarySettings) (driven.SummaryService, error) {
	svc, err := CreateSummaryService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paperrank settings' to fix",
			domain.ErrSummaryUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paperrank settings' to fix",
			domain.ErrSummaryUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for validating credentials when settings change.
func ValidateEmbeddingConfig(settings domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateSummaryConfig validates a summarisation configuration by creating a service and pinging it.
// This is intended for validating credentials when settings change.
func ValidateSummaryConfig(settings domain.SummarySettings) error {
	svc, err := CreateSummaryService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateSummaryService creates the appropriate summary service based on settings.
// Returns nil if the provider is not configured.
func CreateSummaryService(settings domain.SummarySettings) (driven.SummaryService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaSummary(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAISummary(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicSummary(settings)

	default:
		return nil, fmt.Errorf("unsupported summary provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		Dimensions:        dimensions,
		BatchSize:         settings.BatchSize,
		MaxConcurrency:    settings.MaxConcurrency,
		MaxRetries:        settings.MaxAttempts,
		RequestsPerMinute: float64(settings.RequestsPerMinute),
	})
}

// createOllamaSummary creates an Ollama summary service.
func createOllamaSummary(settings domain.SummarySettings) driven.SummaryService {
	return ollamasum.NewSummaryService(ollamasum.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAISummary creates an OpenAI summary service.
func createOpenAISummary(settings domain.SummarySettings) (driven.SummaryService, error) {
	return openaisum.NewSummaryService(openaisum.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicSummary creates an Anthropic summary service.
func createAnthropicSummary(settings domain.SummarySettings) (driven.SummaryService, error) {
	return anthropicsum.NewSummaryService(anthropicsum.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
