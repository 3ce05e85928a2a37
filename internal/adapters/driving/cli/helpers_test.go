package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

// mockPaperService implements driving.PaperService for testing.
type mockPaperService struct {
	papers  []domain.Paper
	paper   *domain.Paper
	content string
	status  *driving.IngestStatus
	err     error

	gotRole   domain.PaperRole
	gotFilter domain.RankFilter
	deleted   []string
}

func (m *mockPaperService) List(
	_ context.Context,
	role domain.PaperRole,
	filter domain.RankFilter,
) ([]domain.Paper, error) {
	m.gotRole = role
	m.gotFilter = filter
	return m.papers, m.err
}

func (m *mockPaperService) Get(_ context.Context, _ string) (*domain.Paper, error) {
	return m.paper, m.err
}

func (m *mockPaperService) Content(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockPaperService) Delete(_ context.Context, paperID string) error {
	m.deleted = append(m.deleted, paperID)
	return m.err
}

func (m *mockPaperService) Status(_ context.Context) (*driving.IngestStatus, error) {
	return m.status, m.err
}

// mockRanker implements driving.Ranker for testing.
type mockRanker struct {
	results []domain.RankedPaper
	err     error

	gotSeeds  []string
	gotFilter domain.RankFilter
	gotTopN   int
}

func (m *mockRanker) Rank(
	_ context.Context,
	seedIDs []string,
	filter domain.RankFilter,
	topN int,
) ([]domain.RankedPaper, error) {
	m.gotSeeds = seedIDs
	m.gotFilter = filter
	m.gotTopN = topN
	return m.results, m.err
}

// mockSummariser implements driving.Summariser for testing.
type mockSummariser struct {
	summary *domain.Summary
	err     error

	gotPaperID string
	gotRefresh bool
}

func (m *mockSummariser) Summary(
	_ context.Context,
	paperID string,
	refresh bool,
) (*domain.Summary, error) {
	m.gotPaperID = paperID
	m.gotRefresh = refresh
	return m.summary, m.err
}

// mockIngestor implements driving.Ingestor for testing.
type mockIngestor struct {
	report *domain.IngestionReport
	err    error

	gotOpts driving.IngestOptions
}

func (m *mockIngestor) IngestAll(
	_ context.Context,
	opts driving.IngestOptions,
) (*domain.IngestionReport, error) {
	m.gotOpts = opts
	return m.report, m.err
}

// mockWatcher implements the watchRunner surface for testing.
type mockWatcher struct {
	err     error
	started bool
}

func (m *mockWatcher) Start(_ context.Context) error {
	m.started = true
	return m.err
}

func (m *mockWatcher) Stop() {}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetSource(_ domain.SourceSettings) error {
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetSummaryProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetVectorBackend(_ domain.VectorBackend, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetScorePolicy(_ domain.ScorePolicy) error {
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateSummaryConfig() error {
	return m.validateErr
}

// testSettings returns a settings fixture with a configured source and
// embedding provider.
func testSettings() *domain.AppSettings {
	settings := domain.DefaultAppSettings()
	settings.Source.Path = "/papers"
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "nomic-embed-text"
	settings.Embedding.BaseURL = "http://localhost:11434"
	return &settings
}

// setupTestServices swaps every package service for a happy-path mock
// and returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldSettings := settingsService
	oldPapers := paperService
	oldIngestor := ingestor
	oldRanker := ranker
	oldSummariser := summariser
	oldWatcher := watcher

	settingsService = &mockSettingsService{settings: testSettings()}
	paperService = &mockPaperService{
		papers: []domain.Paper{
			{
				ID:    "seed-1",
				Title: "Deep Residual Learning",
				Year:  2016,
				Role:  domain.RoleSeed,
			},
			{
				ID:      "corpus-1",
				Title:   "Attention Is All You Need",
				Authors: []string{"Vaswani", "Shazeer"},
				Year:    2017,
				Venue:   "NeurIPS",
				Role:    domain.RoleCorpus,
			},
		},
		paper: &domain.Paper{
			ID:         "corpus-1",
			Title:      "Attention Is All You Need",
			Authors:    []string{"Vaswani", "Shazeer"},
			Year:       2017,
			Venue:      "NeurIPS",
			SourceKey:  "corpus/attention.pdf",
			Role:       domain.RoleCorpus,
			ChunkCount: 12,
		},
		content: "Attention mechanisms connect encoder and decoder.",
		status: &driving.IngestStatus{
			SeedCount:   1,
			CorpusCount: 1,
			LastRun: &domain.IngestionRun{
				ID:        "run-1",
				Finished:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
				Succeeded: 2,
				Skipped:   0,
				Failed:    0,
			},
		},
	}
	ingestor = &mockIngestor{
		report: &domain.IngestionReport{Succeeded: 2, Skipped: 1},
	}
	ranker = &mockRanker{
		results: []domain.RankedPaper{
			{
				Paper: domain.Paper{
					ID:      "corpus-1",
					Title:   "Attention Is All You Need",
					Authors: []string{"Vaswani", "Shazeer"},
					Year:    2017,
					Venue:   "NeurIPS",
					Role:    domain.RoleCorpus,
				},
				Score: 0.9123,
			},
		},
	}
	summariser = &mockSummariser{
		summary: &domain.Summary{
			PaperID:     "corpus-1",
			Text:        "Introduces the transformer architecture.",
			Model:       "llama3.2",
			GeneratedAt: time.Date(2026, 1, 15, 10, 5, 0, 0, time.UTC),
		},
	}
	watcher = &mockWatcher{}

	return func() {
		settingsService = oldSettings
		paperService = oldPapers
		ingestor = oldIngestor
		ranker = oldRanker
		summariser = oldSummariser
		watcher = oldWatcher
	}
}
