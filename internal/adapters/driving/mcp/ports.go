package mcp

import (
	"github.com/custodia-labs/paperrank/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ranker scores corpus papers against the seed set.
	Ranker driving.Ranker

	// Summariser provides cached paper summaries.
	Summariser driving.Summariser

	// Papers lists stored papers and reports ingestion state.
	Papers driving.PaperService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ranker == nil {
		return ErrMissingRanker
	}
	// Summariser and Papers are optional; their tools report the gap.
	return nil
}
