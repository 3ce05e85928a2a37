package driving

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// Ingestor runs ingestion over the configured paper source.
type Ingestor interface {
	// IngestAll lists every paper, processes each independently, and
	// returns the per-paper outcome report. A single paper's failure
	// never aborts the run; provider authentication failures do.
	IngestAll(ctx context.Context, opts IngestOptions) (*domain.IngestionReport, error)
}

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// Force re-processes papers even when their content is unchanged.
	Force bool

	// Workers caps concurrent per-paper processing. 0 uses the default.
	Workers int
}
