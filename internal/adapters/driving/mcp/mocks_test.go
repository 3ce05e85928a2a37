package mcp

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

// mockRanker is a mock implementation of driving.Ranker.
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

// mockSummariser is a mock implementation of driving.Summariser.
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

// mockPaperService is a mock implementation of driving.PaperService.
type mockPaperService struct {
	papers  []domain.Paper
	paper   *domain.Paper
	content string
	status  *driving.IngestStatus
	err     error
}

func (m *mockPaperService) List(
	_ context.Context,
	_ domain.PaperRole,
	_ domain.RankFilter,
) ([]domain.Paper, error) {
	return m.papers, m.err
}

func (m *mockPaperService) Get(_ context.Context, _ string) (*domain.Paper, error) {
	return m.paper, m.err
}

func (m *mockPaperService) Content(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockPaperService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockPaperService) Status(_ context.Context) (*driving.IngestStatus, error) {
	return m.status, m.err
}
