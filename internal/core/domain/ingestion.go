package domain

import "time"

// IngestStage identifies how far a paper progressed through ingestion.
type IngestStage string

// Ingestion stages, in pipeline order.
const (
	// StageDiscovered means the paper was listed from the source.
	StageDiscovered IngestStage = "discovered"

	// StageExtracted means text extraction succeeded.
	StageExtracted IngestStage = "extracted"

	// StageChunked means chunking produced at least one segment.
	StageChunked IngestStage = "chunked"

	// StageEmbedded means all chunk embeddings were obtained.
	StageEmbedded IngestStage = "embedded"

	// StagePersisted means vectors and metadata were both written.
	StagePersisted IngestStage = "persisted"
)

// IngestionFailure records one paper that did not reach StagePersisted.
type IngestionFailure struct {
	// PaperID identifies the failed paper.
	PaperID string

	// Stage is the stage the paper failed in.
	Stage IngestStage

	// Reason is a short classification, e.g. "extraction failed".
	Reason string
}

// IngestionReport is the outcome of one ingestion run. The run never
// aborts on a single paper; failures accumulate here instead.
type IngestionReport struct {
	// RunID identifies the run.
	RunID string

	// Started is when the run began.
	Started time.Time

	// Finished is when the run completed.
	Finished time.Time

	// Succeeded counts papers that reached StagePersisted this run.
	Succeeded int

	// Skipped counts papers left untouched because their content was
	// unchanged since the last successful ingestion.
	Skipped int

	// Failed lists papers that failed, with the stage they died in.
	Failed []IngestionFailure
}

// Total returns the number of papers the run considered.
func (r *IngestionReport) Total() int {
	return r.Succeeded + r.Skipped + len(r.Failed)
}

// IngestionRun is the persisted record of a completed run, so any
// process can observe run history without sharing in-process state.
type IngestionRun struct {
	// ID identifies the run.
	ID string

	// Started is when the run began.
	Started time.Time

	// Finished is when the run completed.
	Finished time.Time

	// Succeeded counts papers persisted this run.
	Succeeded int

	// Skipped counts unchanged papers left untouched.
	Skipped int

	// Failed counts papers that failed.
	Failed int
}
