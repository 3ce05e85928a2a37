package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// WatchService re-ingests whenever the paper source reports a change.
// It requires a source implementing driven.WatchableSource.
type WatchService struct {
	source   driven.PaperSource
	ingestor driving.Ingestor

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatchService creates a new watch service.
func NewWatchService(source driven.PaperSource, ingestor driving.Ingestor) *WatchService {
	return &WatchService{
		source:   source,
		ingestor: ingestor,
	}
}

// Start begins watching. It blocks until the context is cancelled,
// Stop is called, or the source stops reporting. Change events are
// already debounced by the source.
func (s *WatchService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	watchable, ok := s.source.(driven.WatchableSource)
	if !ok {
		return fmt.Errorf("%s source does not support watching", s.source.Type())
	}

	events, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	logger.Info("Watching %s source for changes", s.source.Type())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stopCh:
			return nil

		case _, ok := <-events:
			if !ok {
				return nil // Source stopped reporting
			}
			logger.Info("Source change detected, re-ingesting")
			report, err := s.ingestor.IngestAll(ctx, driving.IngestOptions{})
			if err != nil {
				// Auth failures will not heal on retry; stop watching.
				if errors.Is(err, domain.ErrProviderAuth) {
					return err
				}
				logger.Error("Re-ingestion failed: %v", err)
				continue
			}
			logger.Info("Re-ingestion complete: %d succeeded, %d skipped, %d failed",
				report.Succeeded, report.Skipped, len(report.Failed))
		}
	}
}

// Stop gracefully shuts down the watch loop.
func (s *WatchService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}
