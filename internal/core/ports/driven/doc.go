// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PaperSource: Lists and fetches paper bytes from storage
//   - TextExtractor: Turns source bytes into text with metadata hints
//   - ExtractorRegistry: Selects the appropriate extractor
//   - PaperStore: Paper metadata persistence
//   - ChunkStore: Chunk text persistence
//   - SummaryStore: Cached summary persistence
//   - RunStore: Ingestion run history persistence
//   - VectorStore: Chunk embedding persistence
//   - EmbeddingService: Generates vector embeddings
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SummaryService: Provider summarisation. Without it, summaries are disabled.
//   - PromptStore: Custom prompt templates. Without it, defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
