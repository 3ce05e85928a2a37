package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

var (
	rankSeeds    []string
	rankTop      int
	rankYearFrom int
	rankYearTo   int
	rankAuthor   string
	rankKeywords []string
	rankJSON     bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank corpus papers against the seed set",
	Long: `Scores every stored corpus paper by semantic similarity to the seed
papers and prints the best matches. Without --seed, every stored seed
paper forms the reference set.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringArrayVar(&rankSeeds, "seed", nil, "seed paper ID (repeatable; default: all stored seeds)")
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", 20, "maximum number of results")
	rankCmd.Flags().IntVar(&rankYearFrom, "year-from", 0, "earliest publication year")
	rankCmd.Flags().IntVar(&rankYearTo, "year-to", 0, "latest publication year")
	rankCmd.Flags().StringVar(&rankAuthor, "author", "", "author substring filter")
	rankCmd.Flags().StringArrayVar(&rankKeywords, "keyword", nil, "keyword filter (repeatable)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(rankCmd)
}

// rankedPaperJSON is the JSON shape of one rank result.
type rankedPaperJSON struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Year    int      `json:"year,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Score   float64  `json:"score"`
}

func runRank(cmd *cobra.Command, _ []string) error {
	if ranker == nil {
		return errors.New("ranking not configured; run 'paperrank settings' to review storage settings")
	}

	ctx := context.Background()

	seedIDs := rankSeeds
	if len(seedIDs) == 0 {
		if paperService == nil {
			return errors.New("paper service not configured")
		}
		seeds, err := paperService.List(ctx, domain.RoleSeed, domain.RankFilter{})
		if err != nil {
			return fmt.Errorf("failed to list seed papers: %w", err)
		}
		if len(seeds) == 0 {
			return errors.New("no seed papers stored; run 'paperrank ingest' first")
		}
		for i := range seeds {
			seedIDs = append(seedIDs, seeds[i].ID)
		}
	}

	filter := domain.RankFilter{
		YearFrom: rankYearFrom,
		YearTo:   rankYearTo,
		Author:   rankAuthor,
		Keywords: rankKeywords,
	}

	results, err := ranker.Rank(ctx, seedIDs, filter, rankTop)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if rankJSON {
		return outputRankJSON(cmd, results)
	}
	return outputRankTable(cmd, results)
}

func outputRankJSON(cmd *cobra.Command, results []domain.RankedPaper) error {
	out := make([]rankedPaperJSON, 0, len(results))
	for i := range results {
		paper := results[i].Paper
		out = append(out, rankedPaperJSON{
			ID:      paper.ID,
			Title:   paper.Title,
			Authors: paper.Authors,
			Year:    paper.Year,
			Venue:   paper.Venue,
			Score:   results[i].Score,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRankTable(cmd *cobra.Command, results []domain.RankedPaper) error {
	if len(results) == 0 {
		cmd.Println("No corpus papers matched.")
		return nil
	}

	cmd.Println("Ranked papers:")
	cmd.Println()
	for i := range results {
		paper := results[i].Paper
		title := paper.Title
		if title == "" {
			title = paper.ID
		}

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, results[i].Score)

		var details []string
		if len(paper.Authors) > 0 {
			details = append(details, strings.Join(paper.Authors, ", "))
		}
		if paper.Year != 0 {
			details = append(details, fmt.Sprintf("%d", paper.Year))
		}
		if paper.Venue != "" {
			details = append(details, paper.Venue)
		}
		if len(details) > 0 {
			cmd.Printf("      %s\n", strings.Join(details, "; "))
		}
		cmd.Printf("      id: %s\n", paper.ID)
		cmd.Println()
	}

	return nil
}
