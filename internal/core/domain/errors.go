package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Rejected before any external call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates source bytes could not be turned into text.
	// Per-paper: the paper is skipped and the run continues.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmptyContent indicates extraction produced no usable text.
	// Per-paper: the paper is skipped and the run continues.
	ErrEmptyContent = errors.New("no extractable content")

	// ErrProviderUnavailable indicates the model provider failed after
	// retries were exhausted. Per-paper during ingestion; fatal for a
	// single rank or summary request.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderAuth indicates the provider rejected the credentials.
	// This is a configuration problem, not a data problem: it aborts
	// the whole run immediately.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrDataIntegrity indicates stored data violates an invariant,
	// such as a zero-magnitude vector or vectors missing for an
	// ingested paper. Surfaced, never silently scored.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	// Retried by the gateway; wrapped into ErrProviderUnavailable once
	// retries are exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSummaryUnavailable indicates the summarisation service is not
	// configured. Summaries are disabled without a provider.
	ErrSummaryUnavailable = errors.New("summary service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and ranking are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
