package driven

import (
	"context"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// TextExtractor turns raw paper bytes into cleaned text with metadata
// hints. Each extractor handles specific MIME types (e.g., PDF, plain
// text).
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract produces text and metadata hints from the raw bytes.
	// Corrupt or unreadable input fails with domain.ErrExtraction.
	Extract(ctx context.Context, raw *domain.RawPaper) (*domain.Extraction, error)
}

// ExtractorRegistry selects the appropriate extractor for a paper.
// It maintains a priority-ordered list of extractors and dispatches
// based on MIME type.
type ExtractorRegistry interface {
	// Extract runs the best matching extractor for the raw paper.
	// No matching extractor fails with domain.ErrUnsupportedType.
	Extract(ctx context.Context, raw *domain.RawPaper) (*domain.Extraction, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
