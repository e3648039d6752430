// Package domain defines the core business entities for scidata.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Dataset: A normalised dataset record, common to every source
//   - RawRecord: A source-specific record before normalisation
//   - FilterCriteria: In-memory filter predicates over datasets
//   - SearchOptions: Structured + full-text queries against the index
//   - IndexStats / BuildMetadata: Local index bookkeeping
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
