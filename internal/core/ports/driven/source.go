package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// PaperSource lists and fetches paper bytes from external storage.
// Role is encoded by source location: seed papers under one prefix,
// corpus papers under another.
type PaperSource interface {
	// Type returns the source type identifier (e.g., "s3", "filesystem").
	Type() string

	// List enumerates papers with the given role.
	List(ctx context.Context, role domain.PaperRole) ([]SourceObject, error)

	// Fetch retrieves the raw bytes for a source key.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// SourceObject describes one listed paper before fetching.
type SourceObject struct {
	// Key is the opaque locator within the source.
	Key string

	// Role is seed or corpus, derived from the key's prefix.
	Role domain.PaperRole

	// Size is the object size in bytes.
	Size int64

	// ETag identifies the object content version, when the source
	// provides one. Used with Size to detect unchanged papers.
	ETag string

	// ModifiedAt is the object's last modification time.
	ModifiedAt time.Time
}

// WatchableSource is an optional capability for sources that can
// report changes, enabling re-ingestion on demand.
type WatchableSource interface {
	// Watch emits a signal whenever the source content changes.
	// Events are debounced; the channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
