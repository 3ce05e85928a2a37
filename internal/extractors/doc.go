// Package extractors provides implementations of the TextExtractor
// interface for various paper formats. Each extractor knows how to pull
// text content out of a specific MIME type.
//
// Extractors are registered with the Registry at startup. The package
// also holds the shared text cleaning and metadata heuristics applied
// to every extracted paper.
package extractors
