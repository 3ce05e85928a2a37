package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// Ensure SummaryCacheService implements the interface.
var _ driving.Summariser = (*SummaryCacheService)(nil)

const (
	// defaultSummaryTokens bounds generated summary length.
	defaultSummaryTokens = 200

	// summaryChunkLimit is how many leading chunks feed the summary.
	summaryChunkLimit = 3

	// summaryInputCap bounds the provider payload in bytes. Cuts are
	// rune-aligned so multibyte text never splits mid-character.
	summaryInputCap = 8000
)

// SummaryCacheService serves paper summaries through a read-through
// cache: generation happens at most once per paper until a refresh is
// requested.
type SummaryCacheService struct {
	papers     driven.PaperStore
	chunks     driven.ChunkStore
	summaries  driven.SummaryStore
	summariser driven.SummaryService
	maxTokens  int
}

// NewSummaryCacheService creates a new summary cache service.
// The summariser is optional - when nil, summaries are disabled.
func NewSummaryCacheService(
	papers driven.PaperStore,
	chunks driven.ChunkStore,
	summaries driven.SummaryStore,
	summariser driven.SummaryService,
	maxTokens int,
) *SummaryCacheService {
	if maxTokens <= 0 {
		maxTokens = defaultSummaryTokens
	}
	return &SummaryCacheService{
		papers:     papers,
		chunks:     chunks,
		summaries:  summaries,
		summariser: summariser,
		maxTokens:  maxTokens,
	}
}

// Summary returns the paper's summary, generating and caching it on
// first request. refresh bypasses the cache read and overwrites the
// stored row.
func (s *SummaryCacheService) Summary(ctx context.Context, paperID string, refresh bool) (*domain.Summary, error) {
	if strings.TrimSpace(paperID) == "" {
		return nil, fmt.Errorf("%w: paper ID is empty", domain.ErrInvalidInput)
	}

	if _, err := s.papers.Get(ctx, paperID); err != nil {
		return nil, fmt.Errorf("get paper %s: %w", paperID, err)
	}

	return readThrough(ctx, paperID, refresh, s.summaries.Get, s.summaries.Put, s.generate)
}

// generate produces a fresh summary from the paper's stored chunks.
func (s *SummaryCacheService) generate(ctx context.Context, paperID string) (*domain.Summary, error) {
	if s.summariser == nil {
		return nil, fmt.Errorf("%w: no summary provider configured", domain.ErrSummaryUnavailable)
	}

	chunks, err := s.chunks.ListByPaper(ctx, paperID, summaryChunkLimit)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks stored for paper %s", domain.ErrDataIntegrity, paperID)
	}

	content := summaryInput(chunks)

	text, err := s.summariser.Summarise(ctx, content, s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: provider returned empty summary", domain.ErrSummaryUnavailable)
	}

	logger.Debug("Generated summary for %s with %s", paperID, s.summariser.ModelName())
	return &domain.Summary{
		PaperID:     paperID,
		Text:        text,
		Model:       s.summariser.ModelName(),
		GeneratedAt: time.Now(),
	}, nil
}

// summaryInput joins the leading chunks and caps the result so one
// request never carries a whole paper.
func summaryInput(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	content := strings.Join(parts, "\n\n")
	if len(content) <= summaryInputCap {
		return content
	}

	cut := summaryInputCap
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
