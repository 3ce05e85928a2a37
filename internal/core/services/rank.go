package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// Ensure RankingService implements the interface.
var _ driving.Ranker = (*RankingService)(nil)

// scoreWorkers caps concurrent per-paper scoring. Scoring is read-only
// against fetched vectors, so workers need no cross-paper coordination.
const scoreWorkers = 4

// RankingService scores corpus papers against a seed set.
type RankingService struct {
	paperStore  driven.PaperStore
	vectorStore driven.VectorStore
	scorer      Scorer
}

// NewRankingService creates a new ranking service.
func NewRankingService(
	paperStore driven.PaperStore,
	vectorStore driven.VectorStore,
	scorer Scorer,
) *RankingService {
	return &RankingService{
		paperStore:  paperStore,
		vectorStore: vectorStore,
		scorer:      scorer,
	}
}

// Rank computes per-paper similarity against the seed set, applies the
// metadata filter, and returns at most topN results sorted by score
// descending, ties broken by paper ID ascending.
func (s *RankingService) Rank(
	ctx context.Context,
	seedIDs []string,
	filter domain.RankFilter,
	topN int,
) ([]domain.RankedPaper, error) {
	// 1. VALIDATE INPUT (before any store call)
	if len(seedIDs) == 0 {
		return nil, fmt.Errorf("%w: seed set is empty", domain.ErrInvalidInput)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: topN must be positive, got %d", domain.ErrInvalidInput, topN)
	}
	seedIDs = dedupe(seedIDs)

	// 2. RESOLVE SEEDS (only metadata-present papers participate)
	for _, id := range seedIDs {
		if _, err := s.paperStore.Get(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown seed paper %q", domain.ErrInvalidInput, id)
			}
			return nil, fmt.Errorf("get seed paper %q: %w", id, err)
		}
	}

	// 3. LOAD SEED VECTORS
	seedVectors, err := s.vectorStore.FetchVectors(ctx, seedIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch seed vectors: %w", err)
	}
	var seeds [][]float32
	for _, id := range seedIDs {
		vecs, ok := seedVectors[id]
		if !ok || len(vecs) == 0 {
			return nil, fmt.Errorf("%w: no vectors stored for seed %q", domain.ErrDataIntegrity, id)
		}
		for _, v := range vecs {
			seeds = append(seeds, v.Values)
		}
	}

	// 4. LOAD FILTERED CORPUS
	papers, err := s.paperStore.List(ctx, domain.RoleCorpus, filter)
	if err != nil {
		return nil, fmt.Errorf("list corpus papers: %w", err)
	}
	if len(papers) == 0 {
		return []domain.RankedPaper{}, nil
	}

	ids := make([]string, len(papers))
	for i := range papers {
		ids[i] = papers[i].ID
	}

	// 5. FETCH CORPUS VECTORS IN BULK
	corpusVectors, err := s.vectorStore.FetchVectors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus vectors: %w", err)
	}

	// 6. SCORE PAPERS (parallel, index-addressed for determinism)
	ranked, err := s.scorePapers(ctx, papers, seeds, corpusVectors)
	if err != nil {
		return nil, err
	}

	// 7. ORDER AND TRUNCATE
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Paper.ID < ranked[j].Paper.ID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// scorePapers scores each paper against the seed vectors with bounded
// parallelism. Papers without stored vectors are excluded, not scored
// as zero. Any scoring error fails the whole request.
func (s *RankingService) scorePapers(
	ctx context.Context,
	papers []domain.Paper,
	seeds [][]float32,
	corpusVectors map[string][]domain.ChunkVector,
) ([]domain.RankedPaper, error) {
	scored := make([]*domain.RankedPaper, len(papers))
	errs := make([]error, len(papers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, scoreWorkers)

	for i := range papers {
		vecs, ok := corpusVectors[papers[i].ID]
		if !ok || len(vecs) == 0 {
			logger.Warn("Paper %s has no stored vectors, excluding from ranking", papers[i].ID)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, vecs []domain.ChunkVector) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			paperVecs := make([][]float32, len(vecs))
			for j, v := range vecs {
				paperVecs[j] = v.Values
			}

			score, err := s.scorer.Score(seeds, paperVecs)
			if err != nil {
				errs[i] = fmt.Errorf("score paper %s: %w", papers[i].ID, err)
				return
			}
			scored[i] = &domain.RankedPaper{Paper: papers[i], Score: score}
		}(i, vecs)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	ranked := make([]domain.RankedPaper, 0, len(papers))
	for _, r := range scored {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}
	return ranked, nil
}

// dedupe removes duplicate IDs preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
