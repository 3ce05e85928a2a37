package driving

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// Ranker scores corpus papers against a seed set.
type Ranker interface {
	// Rank computes a per-paper similarity score against the seed set,
	// applies the metadata filter, and returns results sorted by score
	// descending, ties broken by paper ID ascending. topN truncates
	// the result; topN <= 0 is rejected with domain.ErrInvalidInput,
	// as is an empty seed set.
	Rank(ctx context.Context, seedIDs []string, filter domain.RankFilter, topN int) ([]domain.RankedPaper, error)
}
