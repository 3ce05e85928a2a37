// Package chromem provides a vector store backed by chromem-go, an
// embedded pure Go vector database. Vectors persist as files under the
// data directory with no external server.
package chromem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
)

// collectionName is the single collection holding all chunk vectors.
const collectionName = "paper_chunks"

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is a chromem-go backed implementation of driven.VectorStore.
//
// chromem normalises embeddings on write. Cosine similarity is
// invariant under normalisation, so ranking is unaffected.
type VectorStore struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

// NewVectorStore creates a persistent chromem store at the given data
// directory. If dataDir is empty, defaults to ~/.paperrank/data/chromem.
func NewVectorStore(dataDir string) (*VectorStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperrank", "data", "chromem")
	}

	db, err := chromemgo.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("opening chromem database: %w", err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, map[string]string{
		"hnsw:space": "cosine",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	return &VectorStore{
		db:         db,
		collection: collection,
	}, nil
}

// Upsert replaces all vectors stored for the paper with the given set.
func (s *VectorStore) Upsert(ctx context.Context, paperID string, vectors []domain.ChunkVector) error {
	if paperID == "" {
		return domain.ErrInvalidInput
	}

	if err := s.deleteByPaper(ctx, paperID); err != nil {
		return err
	}
	if len(vectors) == 0 {
		return nil
	}

	ids := make([]string, len(vectors))
	embeddings := make([][]float32, len(vectors))
	metadatas := make([]map[string]string, len(vectors))
	contents := make([]string, len(vectors))
	for i, vec := range vectors {
		ids[i] = chunkDocID(paperID, vec.ChunkIndex)
		embeddings[i] = vec.Values
		metadatas[i] = map[string]string{
			"paper_id":    paperID,
			"chunk_index": strconv.Itoa(vec.ChunkIndex),
		}
	}

	if err := s.collection.Add(ctx, ids, embeddings, metadatas, contents); err != nil {
		return fmt.Errorf("adding vectors: %w", err)
	}
	return nil
}

// FetchVectors returns the stored vectors for each requested paper,
// ordered by chunk index. Papers with no stored vectors are absent
// from the result.
func (s *VectorStore) FetchVectors(ctx context.Context, paperIDs []string) (map[string][]domain.ChunkVector, error) {
	result := make(map[string][]domain.ChunkVector, len(paperIDs))

	for _, paperID := range paperIDs {
		// Chunk indices are contiguous from zero, so probe until the
		// first missing document.
		var vectors []domain.ChunkVector
		for i := 0; ; i++ {
			doc, err := s.collection.GetByID(ctx, chunkDocID(paperID, i))
			if err != nil {
				break
			}
			vectors = append(vectors, domain.ChunkVector{
				ChunkIndex: i,
				Values:     doc.Embedding,
			})
		}
		if len(vectors) > 0 {
			result[paperID] = vectors
		}
	}

	return result, nil
}

// DeleteAll removes every vector stored for the paper.
func (s *VectorStore) DeleteAll(ctx context.Context, paperID string) error {
	return s.deleteByPaper(ctx, paperID)
}

// Close is a no-op. chromem persists on every write.
func (s *VectorStore) Close() error {
	return nil
}

// deleteByPaper removes all documents whose metadata matches the paper.
func (s *VectorStore) deleteByPaper(ctx context.Context, paperID string) error {
	if s.collection.Count() == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, map[string]string{"paper_id": paperID}, nil); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// chunkDocID is the collection document ID for one chunk vector.
func chunkDocID(paperID string, chunkIndex int) string {
	return fmt.Sprintf("%s_chunk_%d", paperID, chunkIndex)
}
