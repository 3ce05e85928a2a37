package domain

import (
	"path/filepath"
	"strings"
)

// RawPaper represents opaque bytes fetched from the paper source.
// It is the source's output before text extraction.
type RawPaper struct {
	// PaperID is the identity derived from the source key.
	PaperID string

	// Key is the source locator the bytes came from.
	Key string

	// Role marks the paper as seed or corpus, by source location.
	Role PaperRole

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// MIMETypeForKey derives the MIME type from the key's extension.
// The mapping is fixed so behaviour does not depend on host MIME
// tables. Unknown extensions map to application/octet-stream.
func MIMETypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".text":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
