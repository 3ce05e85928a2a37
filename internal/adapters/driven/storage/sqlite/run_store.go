package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Record stores a completed ingestion run.
func (s *runStore) Record(ctx context.Context, run *domain.IngestionRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, started_at, finished_at, succeeded, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID,
		run.Started.Format(time.RFC3339),
		run.Finished.Format(time.RFC3339),
		run.Succeeded, run.Skipped, run.Failed)

	if err != nil {
		return fmt.Errorf("recording ingestion run: %w", err)
	}
	return nil
}

// Latest returns the most recently finished run.
func (s *runStore) Latest(ctx context.Context) (*domain.IngestionRun, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, succeeded, skipped, failed
		FROM ingestion_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`)

	var run domain.IngestionRun
	var startedAt, finishedAt string
	if err := row.Scan(&run.ID, &startedAt, &finishedAt,
		&run.Succeeded, &run.Skipped, &run.Failed); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning ingestion run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.Started = t
	}
	if t, err := time.Parse(time.RFC3339, finishedAt); err == nil {
		run.Finished = t
	}

	return &run, nil
}
