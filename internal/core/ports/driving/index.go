package driving

import (
	"context"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// IndexService maintains and queries the local dataset index.
type IndexService interface {
	// Rebuild fetches the given sources (all when empty) into the index.
	// A source that fails to fetch is recorded with count 0.
	// Returns domain.ErrRebuildInProgress if another writer holds the lock.
	Rebuild(ctx context.Context, sources []domain.SourceName) (map[domain.SourceName]int, error)

	// Update rebuilds a single source.
	Update(ctx context.Context, source domain.SourceName) (int, error)

	// Search queries the index.
	Search(ctx context.Context, opts domain.SearchOptions) ([]domain.Dataset, error)

	// Stats reports index statistics without creating the index.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// Clear deletes the index. Returns whether it existed.
	Clear(ctx context.Context) (bool, error)

	// Path returns the index location.
	Path() string
}
