package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

func TestServer_handleRankPapers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked papers", func(t *testing.T) {
		mockRank := &mockRanker{
			results: []domain.RankedPaper{
				{
					Paper: domain.Paper{
						ID:      "corpus-1",
						Title:   "Attention Is All You Need",
						Authors: []string{"Vaswani"},
						Year:    2017,
						Venue:   "NeurIPS",
						Role:    domain.RoleCorpus,
					},
					Score: 0.91,
				},
			},
		}

		ports := &Ports{Ranker: mockRank}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := RankInput{SeedIDs: []string{"seed-1"}, Top: 5, YearFrom: 2015, Author: "vaswani"}
		_, output, err := server.handleRankPapers(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "corpus-1", output.Results[0].PaperID)
		assert.Equal(t, "Attention Is All You Need", output.Results[0].Title)
		assert.Equal(t, 2017, output.Results[0].Year)
		assert.Equal(t, "NeurIPS", output.Results[0].Venue)
		assert.Equal(t, 0.91, output.Results[0].Score)
		assert.Equal(t, []string{"seed-1"}, mockRank.gotSeeds)
		assert.Equal(t, 5, mockRank.gotTopN)
		assert.Equal(t, 2015, mockRank.gotFilter.YearFrom)
		assert.Equal(t, "vaswani", mockRank.gotFilter.Author)
	})

	t.Run("default top is 20", func(t *testing.T) {
		mockRank := &mockRanker{}
		ports := &Ports{Ranker: mockRank}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := RankInput{SeedIDs: []string{"seed-1"}}
		_, output, err := server.handleRankPapers(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 20, mockRank.gotTopN)
	})

	t.Run("defaults to stored seeds", func(t *testing.T) {
		mockRank := &mockRanker{}
		mockPapers := &mockPaperService{
			papers: []domain.Paper{
				{ID: "seed-1", Role: domain.RoleSeed},
				{ID: "seed-2", Role: domain.RoleSeed},
			},
		}

		ports := &Ports{Ranker: mockRank, Papers: mockPapers}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleRankPapers(ctx, nil, RankInput{})

		require.NoError(t, err)
		assert.Equal(t, []string{"seed-1", "seed-2"}, mockRank.gotSeeds)
	})

	t.Run("no stored seeds returns error", func(t *testing.T) {
		ports := &Ports{Ranker: &mockRanker{}, Papers: &mockPaperService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleRankPapers(ctx, nil, RankInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no seed papers stored")
	})

	t.Run("no paper service requires explicit seeds", func(t *testing.T) {
		ports := &Ports{Ranker: &mockRanker{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleRankPapers(ctx, nil, RankInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "seed_ids is required")
	})

	t.Run("returns error on rank failure", func(t *testing.T) {
		mockRank := &mockRanker{err: errors.New("vector store offline")}
		ports := &Ports{Ranker: mockRank}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := RankInput{SeedIDs: []string{"seed-1"}}
		_, _, err = server.handleRankPapers(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "vector store offline")
	})
}

func TestServer_handleGetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		generated := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		mockSumm := &mockSummariser{
			summary: &domain.Summary{
				PaperID:     "corpus-1",
				Text:        "A transformer architecture built entirely on attention.",
				Model:       "claude-3-5-sonnet-latest",
				GeneratedAt: generated,
			},
		}

		ports := &Ports{Ranker: &mockRanker{}, Summariser: mockSumm}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SummaryInput{PaperID: "corpus-1", Refresh: true}
		_, output, err := server.handleGetSummary(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "corpus-1", output.PaperID)
		assert.Equal(t, "A transformer architecture built entirely on attention.", output.Summary)
		assert.Equal(t, "claude-3-5-sonnet-latest", output.Model)
		assert.Equal(t, "2026-03-14T09:30:00Z", output.GeneratedAt)
		assert.Equal(t, "corpus-1", mockSumm.gotPaperID)
		assert.True(t, mockSumm.gotRefresh)
	})

	t.Run("nil summariser returns error", func(t *testing.T) {
		ports := &Ports{Ranker: &mockRanker{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleGetSummary(ctx, nil, SummaryInput{PaperID: "corpus-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "summary service not configured")
	})

	t.Run("returns error on summary failure", func(t *testing.T) {
		mockSumm := &mockSummariser{err: errors.New("provider unreachable")}
		ports := &Ports{Ranker: &mockRanker{}, Summariser: mockSumm}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleGetSummary(ctx, nil, SummaryInput{PaperID: "corpus-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider unreachable")
	})
}

func TestServer_handleIngestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns counts and last run", func(t *testing.T) {
		finished := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)
		mockPapers := &mockPaperService{
			status: &driving.IngestStatus{
				SeedCount:   2,
				CorpusCount: 40,
				LastRun: &domain.IngestionRun{
					ID:        "run-7",
					Finished:  finished,
					Succeeded: 38,
					Skipped:   3,
					Failed:    1,
				},
			},
		}

		ports := &Ports{Ranker: &mockRanker{}, Papers: mockPapers}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngestStatus(ctx, nil, StatusInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.SeedCount)
		assert.Equal(t, 40, output.CorpusCount)
		require.NotNil(t, output.LastRun)
		assert.Equal(t, "2026-02-01T18:00:00Z", output.LastRun.Finished)
		assert.Equal(t, 38, output.LastRun.Succeeded)
		assert.Equal(t, 3, output.LastRun.Skipped)
		assert.Equal(t, 1, output.LastRun.Failed)
	})

	t.Run("no last run leaves field empty", func(t *testing.T) {
		mockPapers := &mockPaperService{
			status: &driving.IngestStatus{SeedCount: 1, CorpusCount: 0},
		}

		ports := &Ports{Ranker: &mockRanker{}, Papers: mockPapers}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngestStatus(ctx, nil, StatusInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.SeedCount)
		assert.Nil(t, output.LastRun)
	})

	t.Run("nil paper service returns error", func(t *testing.T) {
		ports := &Ports{Ranker: &mockRanker{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngestStatus(ctx, nil, StatusInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "paper service not configured")
	})

	t.Run("returns error on status failure", func(t *testing.T) {
		mockPapers := &mockPaperService{err: errors.New("database locked")}
		ports := &Ports{Ranker: &mockRanker{}, Papers: mockPapers}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngestStatus(ctx, nil, StatusInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database locked")
	})
}
