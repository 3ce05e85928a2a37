package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for paperrank resources.
	uriScheme = "paperrank://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing stored papers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "papers",
		Name:        "papers",
		Description: "List of all stored papers with their roles",
		MIMEType:    "application/json",
	}, s.handlePapersResource)

	// Template for paper text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "papers/{paperId}",
		Name:        "paper-content",
		Description: "Extracted text of a specific paper",
		MIMEType:    "text/plain",
	}, s.handlePaperContentResource)
}

// handlePapersResource returns a list of all stored papers.
func (s *Server) handlePapersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Papers == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	papers, err := s.ports.Papers.List(ctx, "", domain.RankFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}

	// Build simplified paper list.
	type paperInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Year  int    `json:"year"`
		Role  string `json:"role"`
	}

	infos := make([]paperInfo, len(papers))
	for i := range papers {
		infos[i] = paperInfo{
			ID:    papers[i].ID,
			Title: papers[i].Title,
			Year:  papers[i].Year,
			Role:  papers[i].Role.String(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling papers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePaperContentResource returns the extracted text of a specific paper.
func (s *Server) handlePaperContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Papers == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract paperId from URI: paperrank://papers/{paperId}
	paperID := extractPaperID(req.Params.URI)
	if paperID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Papers.Content(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("getting paper content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// extractPaperID extracts the paper ID from a URI like paperrank://papers/{paperId}.
func extractPaperID(uri string) string {
	const prefix = uriScheme + "papers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
