package driven

import (
	"context"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// IndexStore is the durable, searchable cache of normalised datasets.
// Every write keeps the primary rows and the full-text index in step
// within a single transaction.
type IndexStore interface {
	// ReplaceSource upserts every record under its "source:id" key.
	// The whole batch is one unit of work.
	ReplaceSource(ctx context.Context, source domain.SourceName, records []domain.Dataset) error

	// Search runs a structured and optional full-text query.
	Search(ctx context.Context, opts domain.SearchOptions) ([]domain.Dataset, error)

	// SaveBuildMetadata records the outcome of a build pass.
	SaveBuildMetadata(ctx context.Context, meta domain.BuildMetadata) error

	// Stats reports index statistics. A never-built store reports Exists=false.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// Clear deletes the persisted store. Returns whether anything existed.
	Clear(ctx context.Context) (bool, error)

	// Path returns the store location.
	Path() string

	// Close releases the underlying handle.
	Close() error
}

// WriteLock serialises index writers across processes.
type WriteLock interface {
	// TryLock acquires the lock without blocking.
	// Returns false if another process holds it.
	TryLock() (bool, error)

	// Unlock releases the lock. Safe to call when not held.
	Unlock() error
}
