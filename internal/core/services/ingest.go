package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperrank/internal/chunker"
	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driven"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
	"github.com/custodia-labs/paperrank/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.Ingestor = (*IngestionService)(nil)

// defaultIngestWorkers bounds concurrent per-paper processing when the
// caller does not choose a worker count.
const defaultIngestWorkers = 4

// IngestionService coordinates the ingestion pipeline: list papers from
// the source, extract text, chunk, embed, and persist vectors and
// metadata. Papers are processed independently so one bad paper never
// aborts the run.
type IngestionService struct {
	source     driven.PaperSource
	extractors driven.ExtractorRegistry
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	vectors    driven.VectorStore
	papers     driven.PaperStore
	chunks     driven.ChunkStore
	runs       driven.RunStore
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	source driven.PaperSource,
	extractors driven.ExtractorRegistry,
	chunker *chunker.Chunker,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	papers driven.PaperStore,
	chunks driven.ChunkStore,
	runs driven.RunStore,
) *IngestionService {
	return &IngestionService{
		source:     source,
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		vectors:    vectors,
		papers:     papers,
		chunks:     chunks,
		runs:       runs,
	}
}

// IngestAll lists seed and corpus papers from the source and processes
// each through the pipeline. Unchanged papers are skipped unless
// opts.Force is set. A provider authentication failure cancels the
// whole run; any other per-paper failure only lands in the report.
func (s *IngestionService) IngestAll(ctx context.Context, opts driving.IngestOptions) (*domain.IngestionReport, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultIngestWorkers
	}

	// 1. LIST PAPERS FROM SOURCE (both roles)
	var objects []driven.SourceObject
	for _, role := range []domain.PaperRole{domain.RoleSeed, domain.RoleCorpus} {
		objs, err := s.source.List(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("list %s papers: %w", role, err)
		}
		objects = append(objects, objs...)
	}

	report := &domain.IngestionReport{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	logger.Info("Starting ingestion run %s: %d papers from %s source", report.RunID, len(objects), s.source.Type())

	// 2. PROCESS PAPERS (bounded worker pool)
	// Auth failures poison every in-flight embed call via runCtx.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		runErr error
	)
	sem := make(chan struct{}, workers)

	for _, obj := range objects {
		wg.Add(1)
		sem <- struct{}{}
		go func(obj driven.SourceObject) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome, err := s.processOnePaper(runCtx, obj, opts.Force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && outcome.skipped:
				report.Skipped++
			case err == nil:
				report.Succeeded++
			case errors.Is(err, domain.ErrProviderAuth):
				if runErr == nil {
					runErr = fmt.Errorf("ingest %s: %w", outcome.paperID, err)
					cancel()
				}
			case runCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
				// Cancelled mid-flight; not a per-paper failure.
			default:
				logger.Warn("Paper %s failed at %s stage: %v", outcome.paperID, outcome.stage, err)
				report.Failed = append(report.Failed, domain.IngestionFailure{
					PaperID: outcome.paperID,
					Stage:   outcome.stage,
					Reason:  failureReason(err),
				})
			}
		}(obj)
	}
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Finished = time.Now()
	logger.Info("Ingestion run %s complete: %d succeeded, %d skipped, %d failed",
		report.RunID, report.Succeeded, report.Skipped, len(report.Failed))

	// 3. RECORD RUN HISTORY
	run := &domain.IngestionRun{
		ID:        report.RunID,
		Started:   report.Started,
		Finished:  report.Finished,
		Succeeded: report.Succeeded,
		Skipped:   report.Skipped,
		Failed:    len(report.Failed),
	}
	if err := s.runs.Record(ctx, run); err != nil {
		logger.Warn("Failed to record ingestion run %s: %v", report.RunID, err)
	}

	return report, nil
}

// paperOutcome carries per-paper progress back to the report loop.
type paperOutcome struct {
	paperID string
	stage   domain.IngestStage
	skipped bool
}

// processOnePaper runs the pipeline for a single source object.
func (s *IngestionService) processOnePaper(
	ctx context.Context,
	obj driven.SourceObject,
	force bool,
) (paperOutcome, error) {
	outcome := paperOutcome{
		paperID: domain.PaperIDFromKey(obj.Key),
		stage:   domain.StageDiscovered,
	}

	// 1. SKIP UNCHANGED (content hash from source listing)
	hash := contentHash(obj)
	existing, err := s.papers.Get(ctx, outcome.paperID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return outcome, fmt.Errorf("get paper: %w", err)
	}
	if existing != nil && !force && hash != "" && existing.ContentHash == hash {
		logger.Debug("Skipping %s: content unchanged", obj.Key)
		outcome.skipped = true
		return outcome, nil
	}

	// 2. FETCH RAW BYTES
	content, err := s.source.Fetch(ctx, obj.Key)
	if err != nil {
		return outcome, fmt.Errorf("fetch %s: %w", obj.Key, err)
	}
	raw := &domain.RawPaper{
		PaperID:  outcome.paperID,
		Key:      obj.Key,
		Role:     obj.Role,
		MIMEType: domain.MIMETypeForKey(obj.Key),
		Content:  content,
	}

	// 3. EXTRACT TEXT
	outcome.stage = domain.StageExtracted
	extraction, err := s.extractors.Extract(ctx, raw)
	if err != nil {
		return outcome, fmt.Errorf("extract %s: %w", obj.Key, err)
	}
	if strings.TrimSpace(extraction.Text) == "" {
		return outcome, fmt.Errorf("extract %s: %w", obj.Key, domain.ErrEmptyContent)
	}

	// 4. CHUNK
	outcome.stage = domain.StageChunked
	chunks := s.chunker.Chunk(outcome.paperID, extraction.Text)

	// 5. EMBED ALL CHUNKS
	outcome.stage = domain.StageEmbedded
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return outcome, fmt.Errorf("embed %s: %w", obj.Key, err)
	}
	if len(embeddings) != len(chunks) {
		return outcome, fmt.Errorf("embed %s: %w: got %d vectors for %d chunks",
			obj.Key, domain.ErrDataIntegrity, len(embeddings), len(chunks))
	}

	// 6. PERSIST VECTORS, CHUNKS, METADATA
	outcome.stage = domain.StagePersisted
	vectors := make([]domain.ChunkVector, len(chunks))
	for i := range chunks {
		vectors[i] = domain.ChunkVector{ChunkIndex: chunks[i].Index, Values: embeddings[i]}
	}
	if err := s.vectors.Upsert(ctx, outcome.paperID, vectors); err != nil {
		return outcome, fmt.Errorf("store vectors for %s: %w", obj.Key, err)
	}
	if err := s.chunks.Replace(ctx, outcome.paperID, chunks); err != nil {
		return outcome, fmt.Errorf("store chunks for %s: %w", obj.Key, err)
	}

	paper := buildPaper(outcome.paperID, obj, extraction.Hints, hash, len(chunks), existing)
	if err := s.papers.Upsert(ctx, paper); err != nil {
		return outcome, fmt.Errorf("store paper %s: %w", obj.Key, err)
	}

	logger.Debug("Ingested %s: %d chunks", obj.Key, len(chunks))
	return outcome, nil
}

// buildPaper merges extraction hints with source facts into the stored
// metadata row, preserving CreatedAt across re-ingestion.
func buildPaper(
	id string,
	obj driven.SourceObject,
	hints domain.MetadataHints,
	hash string,
	chunkCount int,
	existing *domain.Paper,
) *domain.Paper {
	now := time.Now()
	created := now
	if existing != nil {
		created = existing.CreatedAt
	}

	title := hints.Title
	if title == "" {
		title = domain.TitleFromKey(obj.Key)
	}

	return &domain.Paper{
		ID:          id,
		Title:       title,
		Authors:     hints.Authors,
		Year:        hints.Year,
		Venue:       hints.Venue,
		Keywords:    hints.Keywords,
		SourceKey:   obj.Key,
		Role:        obj.Role,
		ContentHash: hash,
		ChunkCount:  chunkCount,
		CreatedAt:   created,
		UpdatedAt:   now,
	}
}

// contentHash identifies the source content version for skip detection.
// Prefers the source ETag; falls back to size when the source has none.
// Empty means the version cannot be determined and the paper is always
// re-processed.
func contentHash(obj driven.SourceObject) string {
	if obj.ETag != "" {
		return obj.ETag
	}
	if obj.Size > 0 {
		return "size:" + strconv.FormatInt(obj.Size, 10)
	}
	return ""
}

// failureReason classifies a pipeline error for the report.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		return "unsupported type"
	case errors.Is(err, domain.ErrEmptyContent):
		return "empty content"
	case errors.Is(err, domain.ErrExtraction):
		return "extraction failed"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate limited"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "provider unavailable"
	case errors.Is(err, domain.ErrDataIntegrity):
		return "data integrity"
	default:
		return "pipeline error"
	}
}
