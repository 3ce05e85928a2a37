package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

// Ensure PaperService implements the interface.
var _ driving.PaperService = (*PaperService)(nil)

// PaperService manages stored papers.
type PaperService struct {
	papers  driven.PaperStore
	chunks  driven.ChunkStore
	vectors driven.VectorStore
	runs    driven.RunStore
}

// NewPaperService creates a new paper service.
func NewPaperService(
	papers driven.PaperStore,
	chunks driven.ChunkStore,
	vectors driven.VectorStore,
	runs driven.RunStore,
) *PaperService {
	return &PaperService{
		papers:  papers,
		chunks:  chunks,
		vectors: vectors,
		runs:    runs,
	}
}

// List returns stored papers with the given role, or every paper when
// role is empty, restricted to those matching the filter.
func (s *PaperService) List(ctx context.Context, role domain.PaperRole, filter domain.RankFilter) ([]domain.Paper, error) {
	if role != "" {
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: invalid paper role: %s", domain.ErrInvalidInput, role)
		}
		return s.papers.List(ctx, role, filter)
	}

	seeds, err := s.papers.List(ctx, domain.RoleSeed, filter)
	if err != nil {
		return nil, err
	}
	corpus, err := s.papers.List(ctx, domain.RoleCorpus, filter)
	if err != nil {
		return nil, err
	}
	return append(seeds, corpus...), nil
}

// Get retrieves a paper by ID.
func (s *PaperService) Get(ctx context.Context, paperID string) (*domain.Paper, error) {
	if paperID == "" {
		return nil, fmt.Errorf("%w: paper id is empty", domain.ErrInvalidInput)
	}
	return s.papers.Get(ctx, paperID)
}

// Content returns the paper's stored chunk text, concatenated in chunk
// order. Chunks carry their own boundaries, so plain concatenation
// reproduces the extracted text exactly.
func (s *PaperService) Content(ctx context.Context, paperID string) (string, error) {
	// Check the paper exists so a missing paper and a paper with no
	// stored chunks report differently.
	if _, err := s.Get(ctx, paperID); err != nil {
		return "", err
	}

	chunks, err := s.chunks.ListByPaper(ctx, paperID, 0)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, chunk := range chunks {
		builder.WriteString(chunk.Text)
	}

	return builder.String(), nil
}

// Delete removes the paper together with its chunks, vectors, and
// cached summary.
func (s *PaperService) Delete(ctx context.Context, paperID string) error {
	if _, err := s.Get(ctx, paperID); err != nil {
		return err
	}

	// Vectors may live in a separate backend, so they go first; a
	// failure leaves the metadata intact for a retry.
	if err := s.vectors.DeleteAll(ctx, paperID); err != nil {
		return fmt.Errorf("delete vectors for %s: %w", paperID, err)
	}

	return s.papers.Delete(ctx, paperID)
}

// Status reports stored paper counts and the latest ingestion run.
func (s *PaperService) Status(ctx context.Context) (*driving.IngestStatus, error) {
	seedCount, err := s.papers.Count(ctx, domain.RoleSeed)
	if err != nil {
		return nil, fmt.Errorf("count seed papers: %w", err)
	}
	corpusCount, err := s.papers.Count(ctx, domain.RoleCorpus)
	if err != nil {
		return nil, fmt.Errorf("count corpus papers: %w", err)
	}

	status := &driving.IngestStatus{
		SeedCount:   seedCount,
		CorpusCount: corpusCount,
	}

	run, err := s.runs.Latest(ctx)
	switch {
	case err == nil:
		status.LastRun = run
	case errors.Is(err, domain.ErrNotFound):
		// Ingestion never ran.
	default:
		return nil, fmt.Errorf("load latest run: %w", err)
	}

	return status, nil
}
