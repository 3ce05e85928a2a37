package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// RankInput is the input schema for the rank_papers tool.
type RankInput struct {
	SeedIDs  []string `json:"seed_ids,omitempty" jsonschema:"seed paper IDs defining the interest profile (default: every stored seed)"`
	Top      int      `json:"top,omitempty" jsonschema:"maximum number of ranked papers to return (default 20)"`
	YearFrom int      `json:"year_from,omitempty" jsonschema:"keep only papers published in or after this year"`
	YearTo   int      `json:"year_to,omitempty" jsonschema:"keep only papers published in or before this year"`
	Author   string   `json:"author,omitempty" jsonschema:"keep only papers with an author name containing this text"`
	Keywords []string `json:"keywords,omitempty" jsonschema:"keep only papers carrying all of these keywords"`
}

// RankOutput is the output schema for the rank_papers tool.
type RankOutput struct {
	Results []RankedPaperOutput `json:"results"`
	Count   int                 `json:"count"`
}

// RankedPaperOutput represents a single ranked corpus paper.
type RankedPaperOutput struct {
	PaperID string   `json:"paper_id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Year    int      `json:"year,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Score   float64  `json:"score"`
}

// SummaryInput is the input schema for the get_summary tool.
type SummaryInput struct {
	PaperID string `json:"paper_id" jsonschema:"ID of the paper to summarise"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"regenerate the summary even when a cached one exists"`
}

// SummaryOutput is the output schema for the get_summary tool.
type SummaryOutput struct {
	PaperID     string `json:"paper_id"`
	Summary     string `json:"summary"`
	Model       string `json:"model"`
	GeneratedAt string `json:"generated_at"`
}

// StatusInput is the input schema for the ingest_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the ingest_status tool.
type StatusOutput struct {
	SeedCount   int        `json:"seed_count"`
	CorpusCount int        `json:"corpus_count"`
	LastRun     *RunOutput `json:"last_run,omitempty"`
}

// RunOutput summarises the most recent ingestion run.
type RunOutput struct {
	Finished  string `json:"finished"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rank_papers",
		Description: "Rank the stored corpus by similarity to the seed papers",
	}, s.handleRankPapers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get a cached or freshly generated summary of a stored paper",
	}, s.handleGetSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_status",
		Description: "Report stored paper counts and the latest ingestion run",
	}, s.handleIngestStatus)
}

// handleRankPapers handles the rank_papers tool invocation.
func (s *Server) handleRankPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RankInput,
) (*mcp.CallToolResult, RankOutput, error) {
	top := input.Top
	if top <= 0 {
		top = 20
	}

	seeds := input.SeedIDs
	if len(seeds) == 0 {
		var err error
		seeds, err = s.storedSeedIDs(ctx)
		if err != nil {
			return nil, RankOutput{}, err
		}
	}

	filter := domain.RankFilter{
		YearFrom: input.YearFrom,
		YearTo:   input.YearTo,
		Author:   input.Author,
		Keywords: input.Keywords,
	}

	results, err := s.ports.Ranker.Rank(ctx, seeds, filter, top)
	if err != nil {
		return nil, RankOutput{}, err
	}

	output := RankOutput{
		Results: make([]RankedPaperOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = RankedPaperOutput{
			PaperID: results[i].Paper.ID,
			Title:   results[i].Paper.Title,
			Authors: results[i].Paper.Authors,
			Year:    results[i].Paper.Year,
			Venue:   results[i].Paper.Venue,
			Score:   results[i].Score,
		}
	}

	return nil, output, nil
}

// storedSeedIDs resolves the default seed set from the stored papers.
func (s *Server) storedSeedIDs(ctx context.Context) ([]string, error) {
	if s.ports.Papers == nil {
		return nil, errors.New("seed_ids is required: paper service not configured")
	}

	papers, err := s.ports.Papers.List(ctx, domain.RoleSeed, domain.RankFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing seed papers: %w", err)
	}
	if len(papers) == 0 {
		return nil, errors.New("no seed papers stored")
	}

	ids := make([]string, len(papers))
	for i := range papers {
		ids[i] = papers[i].ID
	}
	return ids, nil
}

// handleGetSummary handles the get_summary tool invocation.
func (s *Server) handleGetSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	if s.ports.Summariser == nil {
		return nil, SummaryOutput{}, errors.New("summary service not configured")
	}

	summary, err := s.ports.Summariser.Summary(ctx, input.PaperID, input.Refresh)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	output := SummaryOutput{
		PaperID:     summary.PaperID,
		Summary:     summary.Text,
		Model:       summary.Model,
		GeneratedAt: summary.GeneratedAt.Format(time.RFC3339),
	}

	return nil, output, nil
}

// handleIngestStatus handles the ingest_status tool invocation.
func (s *Server) handleIngestStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if s.ports.Papers == nil {
		return nil, StatusOutput{}, errors.New("paper service not configured")
	}

	status, err := s.ports.Papers.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	output := StatusOutput{
		SeedCount:   status.SeedCount,
		CorpusCount: status.CorpusCount,
	}
	if status.LastRun != nil {
		output.LastRun = &RunOutput{
			Finished:  status.LastRun.Finished.Format(time.RFC3339),
			Succeeded: status.LastRun.Succeeded,
			Skipped:   status.LastRun.Skipped,
			Failed:    status.LastRun.Failed,
		}
	}

	return nil, output, nil
}
