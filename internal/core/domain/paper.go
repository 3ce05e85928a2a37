package domain

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// PaperRole distinguishes reference papers from ranking candidates.
type PaperRole string

// Available paper roles.
const (
	// RoleSeed marks a paper that defines the interest profile.
	RoleSeed PaperRole = "seed"

	// RoleCorpus marks a candidate paper to be ranked against the seeds.
	RoleCorpus PaperRole = "corpus"
)

// IsValid returns true if the role is recognised.
func (r PaperRole) IsValid() bool {
	return r == RoleSeed || r == RoleCorpus
}

// String returns the string representation.
func (r PaperRole) String() string {
	return string(r)
}

// Paper represents an ingested paper with its bibliographic metadata.
// Raw text is held only transiently during ingestion and never stored here.
type Paper struct {
	// ID is the stable identifier, derived from the source key.
	ID string

	// Title is the paper title, extracted or derived from the filename.
	Title string

	// Authors is the ordered author list.
	Authors []string

	// Year is the publication year, 0 when unknown.
	Year int

	// Venue is the conference or journal name, empty when unknown.
	Venue string

	// Keywords are the declared keywords, if any.
	Keywords []string

	// SourceKey is the opaque locator of the stored bytes.
	SourceKey string

	// Role marks the paper as seed or corpus.
	Role PaperRole

	// ContentHash identifies the source bytes last ingested for this paper.
	// Used to skip unchanged papers on re-ingestion.
	ContentHash string

	// ChunkCount is the number of chunks produced at last ingestion.
	ChunkCount int

	// CreatedAt is when the paper was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the paper was last re-ingested.
	UpdatedAt time.Time
}

// Chunk represents a bounded contiguous segment of a paper's text,
// the unit of embedding. Chunks of a paper concatenated in index order
// reproduce the extracted text exactly.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// PaperID links to the parent Paper.
	PaperID string

	// Index is the ordinal position within the paper.
	Index int

	// Text is the segment content.
	Text string
}

// ChunkVector is the embedding produced for one chunk. Vectors are
// written to the vector store immediately after embedding and replaced
// wholesale on re-ingestion, never mutated.
type ChunkVector struct {
	// ChunkIndex is the ordinal position of the source chunk.
	ChunkIndex int

	// Values is the fixed-dimension embedding.
	Values []float32
}

// Summary is a cached provider-generated summary. At most one exists
// per paper; regeneration overwrites in place.
type Summary struct {
	// PaperID links to the summarised Paper.
	PaperID string

	// Text is the summary content.
	Text string

	// Model is the provider model that generated the text.
	Model string

	// GeneratedAt is when the summary was produced.
	GeneratedAt time.Time
}

// Extraction is the result of text extraction from source bytes.
type Extraction struct {
	// Text is the cleaned full text.
	Text string

	// Hints are metadata guesses derived from the text.
	Hints MetadataHints
}

// MetadataHints holds best-effort bibliographic fields recovered from
// extracted text. Zero values mean the field could not be determined.
type MetadataHints struct {
	// Title is the guessed paper title.
	Title string

	// Authors is the guessed ordered author list.
	Authors []string

	// Year is the guessed publication year.
	Year int

	// Venue is the guessed conference or journal name.
	Venue string

	// Keywords are keywords declared in the text.
	Keywords []string
}

// PaperIDFromKey derives the stable paper identifier from a source key:
// the file stem joined with a short hash of the full key, so renames
// produce new identities while re-ingestion of the same key is an upsert.
func PaperIDFromKey(key string) string {
	base := filepath.Base(key)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	sum := md5.Sum([]byte(key))
	return stem + "_" + hex.EncodeToString(sum[:])[:8]
}

// TitleFromKey derives a display title from a source key, for papers
// whose text yields no title: the file stem with separators spaced out.
func TitleFromKey(key string) string {
	base := filepath.Base(key)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.Join(strings.Fields(stem), " ")
}
