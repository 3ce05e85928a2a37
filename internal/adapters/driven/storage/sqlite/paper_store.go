package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// paperStore implements driven.PaperStore.
type paperStore struct {
	store *Store
}

var _ driven.PaperStore = (*paperStore)(nil)

// Upsert stores or updates a paper.
func (s *paperStore) Upsert(ctx context.Context, paper *domain.Paper) error {
	if paper == nil || paper.ID == "" {
		return domain.ErrInvalidInput
	}

	authorsJSON, err := json.Marshal(paper.Authors)
	if err != nil {
		return fmt.Errorf("marshalling authors: %w", err)
	}
	keywordsJSON, err := json.Marshal(paper.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO papers (id, title, authors, year, venue, keywords, source_key, role, content_hash, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			year = excluded.year,
			venue = excluded.venue,
			keywords = excluded.keywords,
			source_key = excluded.source_key,
			role = excluded.role,
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`, paper.ID, paper.Title, string(authorsJSON), paper.Year, paper.Venue,
		string(keywordsJSON), paper.SourceKey, string(paper.Role),
		paper.ContentHash, paper.ChunkCount, paper.CreatedAt, paper.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	return nil
}

// Get retrieves a paper by ID.
func (s *paperStore) Get(ctx context.Context, id string) (*domain.Paper, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, authors, year, venue, keywords, source_key, role, content_hash, chunk_count, created_at, updated_at
		FROM papers WHERE id = ?
	`, id)

	return scanPaper(row)
}

// List returns papers with the given role that pass the filter.
// Roles narrow in SQL; the metadata filter is a domain predicate and
// applies in Go so there is exactly one implementation of its matching
// rules.
func (s *paperStore) List(ctx context.Context, role domain.PaperRole, filter domain.RankFilter) ([]domain.Paper, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, authors, year, venue, keywords, source_key, role, content_hash, chunk_count, created_at, updated_at
		FROM papers WHERE role = ?
		ORDER BY id
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []domain.Paper //nolint:prealloc // size unknown from query
	for rows.Next() {
		paper, err := scanPaperRows(rows)
		if err != nil {
			return nil, err
		}
		if !filter.Matches(paper) {
			continue
		}
		papers = append(papers, *paper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	return papers, nil
}

// Count returns the number of papers with the given role.
func (s *paperStore) Count(ctx context.Context, role domain.PaperRole) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM papers WHERE role = ?", string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return count, nil
}

// Delete removes a paper together with its chunks and cached summary.
// Vectors belong to the vector store and are deleted through it.
func (s *paperStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE paper_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM summaries WHERE paper_id = ?", id); err != nil {
		return fmt.Errorf("deleting summary: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanPaper scans a single paper row.
func scanPaper(row *sql.Row) (*domain.Paper, error) {
	var paper domain.Paper
	var authorsJSON, keywordsJSON, role string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&paper.ID, &paper.Title, &authorsJSON, &paper.Year, &paper.Venue,
		&keywordsJSON, &paper.SourceKey, &role, &paper.ContentHash, &paper.ChunkCount,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	if err := unmarshalPaperLists(&paper, authorsJSON, keywordsJSON); err != nil {
		return nil, err
	}
	paper.Role = domain.PaperRole(role)
	if createdAt.Valid {
		paper.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		paper.UpdatedAt = updatedAt.Time
	}

	return &paper, nil
}

// scanPaperRows scans a paper from *sql.Rows.
func scanPaperRows(rows *sql.Rows) (*domain.Paper, error) {
	var paper domain.Paper
	var authorsJSON, keywordsJSON, role string
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&paper.ID, &paper.Title, &authorsJSON, &paper.Year, &paper.Venue,
		&keywordsJSON, &paper.SourceKey, &role, &paper.ContentHash, &paper.ChunkCount,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	if err := unmarshalPaperLists(&paper, authorsJSON, keywordsJSON); err != nil {
		return nil, err
	}
	paper.Role = domain.PaperRole(role)
	if createdAt.Valid {
		paper.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		paper.UpdatedAt = updatedAt.Time
	}

	return &paper, nil
}

// unmarshalPaperLists decodes the JSON-encoded authors and keywords columns.
func unmarshalPaperLists(paper *domain.Paper, authorsJSON, keywordsJSON string) error {
	if err := json.Unmarshal([]byte(authorsJSON), &paper.Authors); err != nil {
		return fmt.Errorf("unmarshaling authors: %w", err)
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &paper.Keywords); err != nil {
		return fmt.Errorf("unmarshaling keywords: %w", err)
	}
	return nil
}
