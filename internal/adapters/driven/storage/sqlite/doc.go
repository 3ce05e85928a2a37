// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - PaperStore: Paper metadata persistence
//   - ChunkStore: Chunk text persistence
//   - SummaryStore: Cached summary persistence
//   - RunStore: Ingestion run history persistence
//   - VectorStore: Chunk embedding persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Chunks and vectors are written before their paper
// row during ingestion, so the schema declares no foreign keys; deletes
// remove dependent rows in a single transaction instead.
//
// # Data Location
//
// By default, the database is stored at ~/.paperrank/data/paperrank.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
