package driving

import (
	"context"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// FetchService fetches and normalises records from one source.
type FetchService interface {
	// Fetch pages through a source and normalises every record.
	// A failure on the first page returns the error; a failure on a later
	// page returns the partial result with Interrupted set.
	Fetch(ctx context.Context, source domain.SourceName, opts domain.FetchOptions) (*domain.FetchResult, error)
}

// FilterService narrows and orders an in-memory list of records.
type FilterService interface {
	// Filter keeps the records matching every set criterion, in input order.
	Filter(records []domain.Dataset, criteria domain.FilterCriteria) []domain.Dataset

	// Sort returns a stably sorted copy; records missing the field go last.
	Sort(records []domain.Dataset, field domain.SortField, descending bool) []domain.Dataset

	// Search filters, then sorts, then truncates.
	Search(records []domain.Dataset, criteria domain.FilterCriteria, opts domain.SortOptions) []domain.Dataset
}

// SourceCatalogue lists the repositories the application can fetch from.
type SourceCatalogue interface {
	// List returns every registered source in catalogue order.
	List() []domain.SourceInfo

	// Info returns the catalogue entry for a source.
	Info(name domain.SourceName) (domain.SourceInfo, error)
}
