package driven

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// VectorStore persists chunk embeddings keyed by paper.
// Backends include SQLite blobs, Postgres/pgvector, and chromem.
type VectorStore interface {
	// Upsert replaces all vectors stored for the paper with the given
	// set. Replace-by-paper keeps re-ingestion idempotent even when
	// the new chunking produces fewer chunks than before.
	Upsert(ctx context.Context, paperID string, vectors []domain.ChunkVector) error

	// FetchVectors returns the stored vectors for each requested paper,
	// ordered by chunk index. Papers with no stored vectors are absent
	// from the result, not mapped to an empty slice.
	FetchVectors(ctx context.Context, paperIDs []string) (map[string][]domain.ChunkVector, error)

	// DeleteAll removes every vector stored for the paper.
	DeleteAll(ctx context.Context, paperID string) error

	// Close releases resources.
	Close() error
}
