// Package domain defines the core business entities for paperrank.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paper: An ingested paper with bibliographic metadata
//   - Chunk: A bounded text segment, the unit of embedding
//   - Summary: A cached provider-generated summary
//   - RankedPaper: One entry of a ranking result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
