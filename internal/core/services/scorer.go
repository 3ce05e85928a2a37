package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// Scorer aggregates pairwise chunk similarities into one per-paper
// score. Strategies differ only in how the pairwise cosine values
// collapse to a scalar; filtering and ordering are unaffected.
type Scorer interface {
	// Name returns the policy identifier.
	Name() string

	// Score computes the paper's similarity against the seed set from
	// all seed chunk vectors and all paper chunk vectors. Both sides
	// must be non-empty.
	Score(seeds, paper [][]float32) (float64, error)
}

// NewScorer returns the scorer for a policy. An unset policy falls
// back to the mean strategy.
func NewScorer(policy domain.ScorePolicy) (Scorer, error) {
	switch policy {
	case domain.ScorePolicyMean, "":
		return meanPairwise{}, nil
	case domain.ScorePolicyMax:
		return maxPairwise{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown score policy %q", domain.ErrInvalidInput, policy)
	}
}

// meanPairwise averages every seed-chunk against paper-chunk cosine.
// Every chunk of every seed contributes equally, with no weighting by
// chunk length or seed document.
type meanPairwise struct{}

func (meanPairwise) Name() string { return domain.ScorePolicyMean.String() }

func (meanPairwise) Score(seeds, paper [][]float32) (float64, error) {
	if len(seeds) == 0 || len(paper) == 0 {
		return 0, fmt.Errorf("%w: no vectors to score", domain.ErrDataIntegrity)
	}

	var sum float64
	for _, s := range seeds {
		for _, p := range paper {
			sim, err := cosineSimilarity(s, p)
			if err != nil {
				return 0, err
			}
			sum += sim
		}
	}
	return sum / float64(len(seeds)*len(paper)), nil
}

// maxPairwise takes the single best pairwise cosine.
type maxPairwise struct{}

func (maxPairwise) Name() string { return domain.ScorePolicyMax.String() }

func (maxPairwise) Score(seeds, paper [][]float32) (float64, error) {
	if len(seeds) == 0 || len(paper) == 0 {
		return 0, fmt.Errorf("%w: no vectors to score", domain.ErrDataIntegrity)
	}

	best := math.Inf(-1)
	for _, s := range seeds {
		for _, p := range paper {
			sim, err := cosineSimilarity(s, p)
			if err != nil {
				return 0, err
			}
			if sim > best {
				best = sim
			}
		}
	}
	return best, nil
}

// cosineSimilarity computes the normalised dot product of two vectors,
// accumulating in float64. Zero-magnitude vectors and dimension
// mismatches violate the embedding invariants and are surfaced as
// domain.ErrDataIntegrity, never coerced to a score.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector dimensions differ (%d vs %d)", domain.ErrDataIntegrity, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0, fmt.Errorf("%w: zero-magnitude vector", domain.ErrDataIntegrity)
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
