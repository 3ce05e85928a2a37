// Package chunker provides bounded-size lossless text chunking.
package chunker

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// DefaultMaxSize is the default chunk size cap in bytes.
const DefaultMaxSize = 10000

// Chunker splits extracted paper text into ordered segments. Segments
// concatenated in order reproduce the input exactly: boundaries prefer
// whitespace but never drop characters.
type Chunker struct {
	maxSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxSize sets the chunk size cap in bytes.
func WithMaxSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxSize: DefaultMaxSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MaxSize returns the configured chunk size cap.
func (c *Chunker) MaxSize() int {
	return c.maxSize
}

// Chunk splits text into ordered chunks for the paper. Empty text
// produces no chunks, signalling the caller to record the paper as
// having no extractable content.
func (c *Chunker) Chunk(paperID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(text)/c.maxSize+1)
	start := 0

	for start < len(text) {
		end := c.cut(text, start)

		chunks = append(chunks, domain.Chunk{
			ID:      uuid.New().String(),
			PaperID: paperID,
			Index:   len(chunks),
			Text:    text[start:end],
		})

		start = end
	}

	return chunks
}

// cut returns the end offset of the chunk starting at start. It breaks
// just after the last whitespace inside the window so words stay
// intact, falling back to a rune-aligned hard cut when the window has
// no whitespace. A chunk exceeds the cap only when a single rune is
// wider than it.
func (c *Chunker) cut(text string, start int) int {
	if start+c.maxSize >= len(text) {
		return len(text)
	}

	end := start + c.maxSize
	for i := end - 1; i >= start; i-- {
		if isSpace(text[i]) {
			return i + 1
		}
	}

	// No whitespace in the window; align the hard cut to a rune start.
	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	if end == start {
		_, size := utf8.DecodeRuneInString(text[start:])
		end = start + size
	}
	return end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
