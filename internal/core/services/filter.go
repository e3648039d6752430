package services

import (
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
)

// Ensure FilterService implements the interface.
var _ driving.FilterService = (*FilterService)(nil)

// FilterService narrows and orders in-memory results. It holds no state.
type FilterService struct{}

// NewFilterService creates a filter service.
func NewFilterService() *FilterService {
	return &FilterService{}
}

// Filter keeps the records matching every set criterion, in input order.
func (s *FilterService) Filter(records []domain.Dataset, criteria domain.FilterCriteria) []domain.Dataset {
	return domain.FilterDatasets(records, criteria)
}

// Sort returns a stably sorted copy with records missing the field last.
func (s *FilterService) Sort(records []domain.Dataset, field domain.SortField, descending bool) []domain.Dataset {
	return domain.SortDatasets(records, field, descending)
}

// Search filters, then sorts, then truncates to opts.Limit.
func (s *FilterService) Search(records []domain.Dataset, criteria domain.FilterCriteria, opts domain.SortOptions) []domain.Dataset {
	field := opts.Field
	if field == "" {
		field = domain.DefaultSortField
	}

	out := domain.SortDatasets(domain.FilterDatasets(records, criteria), field, opts.Descending)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
