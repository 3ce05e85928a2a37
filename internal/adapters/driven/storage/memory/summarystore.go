package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore is an in-memory implementation of driven.SummaryStore.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]domain.Summary
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		summaries: make(map[string]domain.Summary),
	}
}

// Get retrieves the cached summary for a paper.
func (s *SummaryStore) Get(_ context.Context, paperID string) (*domain.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[paperID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &summary, nil
}

// Put stores or overwrites the summary for a paper.
func (s *SummaryStore) Put(_ context.Context, summary *domain.Summary) error {
	if summary == nil || summary.PaperID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.PaperID] = *summary
	return nil
}
