package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// Ensure PaperStore implements the interface.
var _ driven.PaperStore = (*PaperStore)(nil)

// PaperStore is an in-memory implementation of driven.PaperStore.
type PaperStore struct {
	mu     sync.RWMutex
	papers map[string]domain.Paper
}

// NewPaperStore creates a new in-memory paper store.
func NewPaperStore() *PaperStore {
	return &PaperStore{
		papers: make(map[string]domain.Paper),
	}
}

// Upsert stores or updates a paper.
func (s *PaperStore) Upsert(_ context.Context, paper *domain.Paper) error {
	if paper == nil || paper.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.papers[paper.ID] = *paper
	return nil
}

// Get retrieves a paper by ID.
func (s *PaperStore) Get(_ context.Context, id string) (*domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paper, ok := s.papers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &paper, nil
}

// List returns papers with the given role that pass the filter,
// ordered by ID.
func (s *PaperStore) List(_ context.Context, role domain.PaperRole, filter domain.RankFilter) ([]domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Paper
	for id := range s.papers {
		paper := s.papers[id]
		if paper.Role != role || !filter.Matches(&paper) {
			continue
		}
		result = append(result, paper)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Count returns the number of papers with the given role.
func (s *PaperStore) Count(_ context.Context, role domain.PaperRole) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, paper := range s.papers {
		if paper.Role == role {
			count++
		}
	}
	return count, nil
}

// Delete removes the paper row. Chunks and summaries for the paper
// become unreachable behind the services' existence checks.
func (s *PaperStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.papers, id)
	return nil
}
