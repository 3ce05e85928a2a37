package driving

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// PaperService manages stored papers and reports ingestion state.
type PaperService interface {
	// List returns stored papers with the given role, or every paper
	// when role is empty, restricted to those matching the filter.
	// Seeds sort before corpus papers, then by ID.
	List(ctx context.Context, role domain.PaperRole, filter domain.RankFilter) ([]domain.Paper, error)

	// Get retrieves a paper by ID.
	Get(ctx context.Context, paperID string) (*domain.Paper, error)

	// Content returns the paper's stored chunk text, concatenated in
	// chunk order.
	Content(ctx context.Context, paperID string) (string, error)

	// Delete removes the paper together with its chunks, vectors, and
	// cached summary.
	Delete(ctx context.Context, paperID string) error

	// Status reports stored paper counts and the latest ingestion run.
	Status(ctx context.Context) (*IngestStatus, error)
}

// IngestStatus is a snapshot of the stored collection.
type IngestStatus struct {
	// SeedCount is the number of stored seed papers.
	SeedCount int

	// CorpusCount is the number of stored corpus papers.
	CorpusCount int

	// LastRun is the most recent completed ingestion run, nil when
	// ingestion never ran.
	LastRun *domain.IngestionRun
}
