package driving

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// Summariser provides cached on-demand paper summaries.
type Summariser interface {
	// Summary returns the paper's summary, generating and caching it
	// on first request. refresh forces regeneration, overwriting the
	// cached row.
	Summary(ctx context.Context, paperID string, refresh bool) (*domain.Summary, error)
}
