package driven

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// PaperStore persists paper metadata.
// Backed by SQLite for metadata storage.
type PaperStore interface {
	// Upsert stores or updates a paper by ID.
	Upsert(ctx context.Context, paper *domain.Paper) error

	// Get retrieves a paper by ID.
	// Returns domain.ErrNotFound if the paper does not exist.
	Get(ctx context.Context, id string) (*domain.Paper, error)

	// List returns papers with the given role that pass the filter.
	// A zero filter returns all papers with the role.
	List(ctx context.Context, role domain.PaperRole, filter domain.RankFilter) ([]domain.Paper, error)

	// Count returns the number of papers with the given role.
	Count(ctx context.Context, role domain.PaperRole) (int, error)

	// Delete removes a paper and its dependent rows.
	Delete(ctx context.Context, id string) error
}

// ChunkStore persists chunk text so summarisation can fetch
// representative content without re-extracting the source.
type ChunkStore interface {
	// Replace removes the paper's existing chunks and stores the new
	// set in one operation.
	Replace(ctx context.Context, paperID string, chunks []domain.Chunk) error

	// ListByPaper returns the paper's chunks ordered by index.
	// A limit of 0 returns all chunks.
	ListByPaper(ctx context.Context, paperID string, limit int) ([]domain.Chunk, error)
}

// SummaryStore persists cached summaries, at most one per paper.
type SummaryStore interface {
	// Get retrieves the cached summary for a paper.
	// Returns domain.ErrNotFound on a cache miss.
	Get(ctx context.Context, paperID string) (*domain.Summary, error)

	// Put stores or overwrites the summary for a paper.
	// Writes to the same paper are last-write-wins, never duplicated.
	Put(ctx context.Context, summary *domain.Summary) error
}

// RunStore persists ingestion run history so any process can observe
// when ingestion last completed.
type RunStore interface {
	// Record stores a completed run.
	Record(ctx context.Context, run *domain.IngestionRun) error

	// Latest returns the most recently finished run.
	// Returns domain.ErrNotFound if no run was ever recorded.
	Latest(ctx context.Context) (*domain.IngestionRun, error)
}
