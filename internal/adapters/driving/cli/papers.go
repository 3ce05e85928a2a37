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
	papersRole     string
	papersYearFrom int
	papersYearTo   int
	papersAuthor   string
	papersKeywords []string
	papersJSON     bool
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List and manage stored papers",
	Long: `Lists ingested papers. Use --role to restrict to seed or corpus
papers, and the filter flags to narrow by metadata.`,
	RunE: runPapersList,
}

var papersShowCmd = &cobra.Command{
	Use:   "show [paper-id]",
	Short: "Show paper metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

var papersContentCmd = &cobra.Command{
	Use:   "content [paper-id]",
	Short: "Print extracted paper text",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersContent,
}

var papersDeleteCmd = &cobra.Command{
	Use:   "delete [paper-id]",
	Short: "Delete a paper and its derived data",
	Long:  `Removes a paper together with its chunks, vectors, and cached summary.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersDelete,
}

func init() {
	papersCmd.Flags().StringVar(&papersRole, "role", "", "restrict to a role: seed or corpus")
	papersCmd.Flags().IntVar(&papersYearFrom, "year-from", 0, "earliest publication year")
	papersCmd.Flags().IntVar(&papersYearTo, "year-to", 0, "latest publication year")
	papersCmd.Flags().StringVar(&papersAuthor, "author", "", "author substring filter")
	papersCmd.Flags().StringArrayVar(&papersKeywords, "keyword", nil, "keyword filter (repeatable)")
	papersCmd.Flags().BoolVar(&papersJSON, "json", false, "output as JSON")

	papersCmd.AddCommand(papersShowCmd)
	papersCmd.AddCommand(papersContentCmd)
	papersCmd.AddCommand(papersDeleteCmd)
	rootCmd.AddCommand(papersCmd)
}

// paperJSON is the JSON shape of one listed paper.
type paperJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"`
	Venue    string   `json:"venue,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Role     string   `json:"role"`
	Chunks   int      `json:"chunks"`
}

func runPapersList(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	role := domain.PaperRole(papersRole)
	filter := domain.RankFilter{
		YearFrom: papersYearFrom,
		YearTo:   papersYearTo,
		Author:   papersAuthor,
		Keywords: papersKeywords,
	}

	ctx := context.Background()
	papers, err := paperService.List(ctx, role, filter)
	if err != nil {
		return fmt.Errorf("failed to list papers: %w", err)
	}

	if papersJSON {
		out := make([]paperJSON, 0, len(papers))
		for i := range papers {
			out = append(out, paperJSON{
				ID:       papers[i].ID,
				Title:    papers[i].Title,
				Authors:  papers[i].Authors,
				Year:     papers[i].Year,
				Venue:    papers[i].Venue,
				Keywords: papers[i].Keywords,
				Role:     papers[i].Role.String(),
				Chunks:   papers[i].ChunkCount,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal papers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(papers) == 0 {
		cmd.Println("No papers stored.")
		return nil
	}

	for i := range papers {
		title := papers[i].Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  [%s] %s\n", papers[i].Role, title)
		cmd.Printf("    id: %s\n", papers[i].ID)
		if papers[i].Year != 0 {
			cmd.Printf("    year: %d\n", papers[i].Year)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d papers\n", len(papers))
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	ctx := context.Background()
	paper, err := paperService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get paper: %w", err)
	}

	cmd.Printf("Paper: %s\n\n", paper.ID)
	cmd.Printf("  Title:     %s\n", paper.Title)
	if len(paper.Authors) > 0 {
		cmd.Printf("  Authors:   %s\n", strings.Join(paper.Authors, ", "))
	}
	if paper.Year != 0 {
		cmd.Printf("  Year:      %d\n", paper.Year)
	}
	if paper.Venue != "" {
		cmd.Printf("  Venue:     %s\n", paper.Venue)
	}
	if len(paper.Keywords) > 0 {
		cmd.Printf("  Keywords:  %s\n", strings.Join(paper.Keywords, ", "))
	}
	cmd.Printf("  Role:      %s\n", paper.Role)
	cmd.Printf("  Source:    %s\n", paper.SourceKey)
	cmd.Printf("  Chunks:    %d\n", paper.ChunkCount)
	cmd.Printf("  Created:   %s\n", paper.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:   %s\n", paper.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runPapersContent(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	content, err := paperService.Content(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get paper content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runPapersDelete(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	if err := paperService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete paper: %w", err)
	}

	cmd.Printf("Deleted paper: %s\n", args[0])
	return nil
}
