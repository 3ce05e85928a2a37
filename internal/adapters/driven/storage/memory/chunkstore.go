package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// Replace removes the paper's existing chunks and stores the new set.
func (s *ChunkStore) Replace(_ context.Context, paperID string, chunks []domain.Chunk) error {
	if paperID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].Index < stored[j].Index
	})
	s.chunks[paperID] = stored
	return nil
}

// ListByPaper returns the paper's chunks ordered by index.
// A limit of 0 returns all chunks.
func (s *ChunkStore) ListByPaper(_ context.Context, paperID string, limit int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.chunks[paperID]
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}
	result := make([]domain.Chunk, len(stored))
	copy(result, stored)
	return result, nil
}
