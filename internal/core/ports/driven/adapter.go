package driven

import (
	"context"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// SourceAdapter talks to one external dataset repository.
// Each repository (openneuro, dandi, physionet, zenodo) implements this interface.
type SourceAdapter interface {
	// Name returns the source this adapter serves.
	Name() domain.SourceName

	// FetchPage issues exactly one request for one page of raw records.
	// Failures are returned as *domain.FetchError; nothing is retried.
	// The adapter clamps req.PageSize to its own server-side ceiling.
	FetchPage(ctx context.Context, req PageRequest) (*Page, error)

	// Normalize converts one raw record into the common shape.
	// Missing fields get defaults; only a record of the wrong variant or
	// without an identifier yields *domain.NormalizationError.
	Normalize(raw domain.RawRecord) (domain.Dataset, error)
}

// PageRequest asks an adapter for one page.
type PageRequest struct {
	// Cursor is the opaque continuation returned by the previous page.
	// Empty requests the first page.
	Cursor string

	// PageSize is the requested page size. Zero selects the adapter default.
	PageSize int

	// SortOrder is passed through to sources that support ordering.
	// Empty selects the adapter default.
	SortOrder string

	// Query is a free-text query for sources that support one.
	// Adapters without query support ignore it.
	Query string
}

// Page is one page of raw records.
type Page struct {
	// Records are the raw records, in server order.
	Records []domain.RawRecord

	// Next is the opaque cursor for the following page.
	// Empty means the source reported no further pages.
	Next string
}

// HasMore reports whether another page can be requested.
func (p *Page) HasMore() bool {
	return p != nil && p.Next != ""
}

// AdapterRegistry resolves adapters by source name.
type AdapterRegistry interface {
	// Get returns the adapter for a source.
	// Returns ErrUnsupportedType if no adapter is registered.
	Get(name domain.SourceName) (SourceAdapter, error)

	// Names returns all registered sources in registration order.
	Names() []domain.SourceName
}
