// Package sqlite provides the SQLite-backed dataset index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. IndexStore implements driven.IndexStore over a single
// database file holding three tables:
//
//   - datasets: one row per normalised record, keyed "source:id"
//   - datasets_fts: FTS5 index over name, readme/abstract/description and tasks
//   - metadata: outcome of the latest build pass
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory and applied when the file is first opened.
//
// # Data Location
//
// By default, the database is stored at ~/.cache/scidata/datasets.db.
// The file is created lazily by the first write; reads against a missing
// file never create it.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with a
// busy timeout, so readers in other processes are not blocked by a rebuild.
package sqlite
