package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// summaryStore implements driven.SummaryStore.
type summaryStore struct {
	store *Store
}

var _ driven.SummaryStore = (*summaryStore)(nil)

// Get retrieves the cached summary for a paper.
func (s *summaryStore) Get(ctx context.Context, paperID string) (*domain.Summary, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT paper_id, content, model, generated_at
		FROM summaries WHERE paper_id = ?
	`, paperID)

	var summary domain.Summary
	var generatedAt string
	if err := row.Scan(&summary.PaperID, &summary.Text, &summary.Model, &generatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning summary: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, generatedAt); err == nil {
		summary.GeneratedAt = t
	}

	return &summary, nil
}

// Put stores or overwrites the summary for a paper.
func (s *summaryStore) Put(ctx context.Context, summary *domain.Summary) error {
	if summary == nil || summary.PaperID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO summaries (paper_id, content, model, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(paper_id) DO UPDATE SET
			content = excluded.content,
			model = excluded.model,
			generated_at = excluded.generated_at
	`, summary.PaperID, summary.Text, summary.Model,
		summary.GeneratedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	return nil
}
