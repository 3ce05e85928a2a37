package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore over a BLOB column.
// Embeddings are encoded as little-endian float32 sequences.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert replaces all vectors stored for the paper with the given set.
func (s *vectorStore) Upsert(ctx context.Context, paperID string, vectors []domain.ChunkVector) error {
	if paperID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM vectors WHERE paper_id = ?", paperID); err != nil {
		return fmt.Errorf("deleting old vectors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (paper_id, chunk_index, embedding)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, vec := range vectors {
		blob := float32SliceToBytes(vec.Values)
		if _, err := stmt.ExecContext(ctx, paperID, vec.ChunkIndex, blob); err != nil {
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
func (s *vectorStore) FetchVectors(ctx context.Context, paperIDs []string) (map[string][]domain.ChunkVector, error) {
	result := make(map[string][]domain.ChunkVector, len(paperIDs))

	for _, paperID := range paperIDs {
		vectors, err := s.fetchOne(ctx, paperID)
		if err != nil {
			return nil, err
		}
		if len(vectors) > 0 {
			result[paperID] = vectors
		}
	}

	return result, nil
}

// fetchOne loads a single paper's vectors in chunk order.
func (s *vectorStore) fetchOne(ctx context.Context, paperID string) ([]domain.ChunkVector, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_index, embedding
		FROM vectors WHERE paper_id = ?
		ORDER BY chunk_index
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var vectors []domain.ChunkVector //nolint:prealloc // size unknown from query
	for rows.Next() {
		var vec domain.ChunkVector
		var blob []byte
		if err := rows.Scan(&vec.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		vec.Values = bytesToFloat32Slice(blob)
		vectors = append(vectors, vec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	return vectors, nil
}

// DeleteAll removes every vector stored for the paper.
func (s *vectorStore) DeleteAll(ctx context.Context, paperID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM vectors WHERE paper_id = ?", paperID)
	if err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// Close is a no-op. The database connection belongs to the parent
// Store and is closed through it.
func (s *vectorStore) Close() error {
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
