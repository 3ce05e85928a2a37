// Package memory provides an in-memory vector store for tests and
// ephemeral runs. Nothing is persisted across process restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	vectors map[string][]domain.ChunkVector
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		vectors: make(map[string][]domain.ChunkVector),
	}
}

// Upsert replaces all vectors stored for the paper with the given set.
func (s *VectorStore) Upsert(_ context.Context, paperID string, vectors []domain.ChunkVector) error {
	if paperID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.ChunkVector, len(vectors))
	copy(stored, vectors)
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].ChunkIndex < stored[j].ChunkIndex
	})
	s.vectors[paperID] = stored
	return nil
}

// FetchVectors returns the stored vectors for each requested paper,
// ordered by chunk index. Papers with no stored vectors are absent
// from the result.
func (s *VectorStore) FetchVectors(_ context.Context, paperIDs []string) (map[string][]domain.ChunkVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string][]domain.ChunkVector, len(paperIDs))
	for _, paperID := range paperIDs {
		stored, ok := s.vectors[paperID]
		if !ok || len(stored) == 0 {
			continue
		}
		vectors := make([]domain.ChunkVector, len(stored))
		copy(vectors, stored)
		result[paperID] = vectors
	}
	return result, nil
}

// DeleteAll removes every vector stored for the paper.
func (s *VectorStore) DeleteAll(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, paperID)
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
