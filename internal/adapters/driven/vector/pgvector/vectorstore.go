// Package pgvector provides a vector store backed by PostgreSQL with
// the pgvector extension, for deployments where vectors must live in a
// shared server rather than embedded storage.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is a Postgres/pgvector backed implementation of
// driven.VectorStore.
type VectorStore struct {
	db *sql.DB
}

// NewVectorStore connects to Postgres and ensures the pgvector schema
// exists. The dimension is fixed at table creation and must match the
// embedding model for the lifetime of the index.
func NewVectorStore(connString string, dimensions int) (*VectorStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dimensions)
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &VectorStore{db: db}
	if err := s.ensureSchema(dimensions); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// ensureSchema creates the extension and table if they do not exist.
func (s *VectorStore) ensureSchema(dimensions int) error {
	if _, err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	// Dimension is part of the column type, so it cannot be a
	// placeholder parameter.
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS paper_vectors (
			paper_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (paper_id, chunk_index)
		)
	`, dimensions)
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("creating paper_vectors table: %w", err)
	}

	return nil
}

// Upsert replaces all vectors stored for the paper with the given set.
func (s *VectorStore) Upsert(ctx context.Context, paperID string, vectors []domain.ChunkVector) error {
	if paperID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM paper_vectors WHERE paper_id = $1", paperID); err != nil {
		return fmt.Errorf("deleting old vectors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paper_vectors (paper_id, chunk_index, embedding)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, vec := range vectors {
		if _, err := stmt.ExecContext(ctx, paperID, vec.ChunkIndex, pgv.NewVector(vec.Values)); err != nil {
			return fmt.Errorf("saving vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FetchVectors returns the stored vectors for each requested paper,
// ordered by chunk index. Papers with no stored vectors are absent
// from the result.
func (s *VectorStore) FetchVectors(ctx context.Context, paperIDs []string) (map[string][]domain.ChunkVector, error) {
	if len(paperIDs) == 0 {
		return map[string][]domain.ChunkVector{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT paper_id, chunk_index, embedding
		FROM paper_vectors
		WHERE paper_id = ANY($1)
		ORDER BY paper_id, chunk_index
	`, pq.Array(paperIDs))
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ChunkVector, len(paperIDs))
	for rows.Next() {
		var paperID string
		var vec domain.ChunkVector
		var embedding pgv.Vector
		if err := rows.Scan(&paperID, &vec.ChunkIndex, &embedding); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		vec.Values = embedding.Slice()
		result[paperID] = append(result[paperID], vec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	return result, nil
}

// DeleteAll removes every vector stored for the paper.
func (s *VectorStore) DeleteAll(ctx context.Context, paperID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM paper_vectors WHERE paper_id = $1", paperID)
	if err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *VectorStore) Close() error {
	return s.db.Close()
}
