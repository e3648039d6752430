package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
	"github.com/custodia-labs/scidata/internal/logger"
)

// Ensure FetchService implements the interface.
var _ driving.FetchService = (*FetchService)(nil)

// FetchService fetches and normalises one source on demand.
type FetchService struct {
	registry   driven.AdapterRegistry
	aggregator *Aggregator
	defaults   domain.FetchSettings
}

// NewFetchService creates a fetch service. defaults fill PageSize and
// MaxRecords when a request leaves them at zero.
func NewFetchService(registry driven.AdapterRegistry, aggregator *Aggregator, defaults domain.FetchSettings) *FetchService {
	return &FetchService{
		registry:   registry,
		aggregator: aggregator,
		defaults:   defaults,
	}
}

// Fetch pages through a source and normalises every record.
// A negative MaxRecords fetches everything regardless of the defaults.
func (s *FetchService) Fetch(ctx context.Context, source domain.SourceName, opts domain.FetchOptions) (*domain.FetchResult, error) {
	adapter, err := s.registry.Get(source)
	if err != nil {
		return nil, err
	}

	if opts.PageSize <= 0 {
		opts.PageSize = s.defaults.PageSize
	}
	if opts.MaxRecords == 0 {
		opts.MaxRecords = s.defaults.MaxRecords
	}

	result := &domain.FetchResult{Source: source}
	caller := opts.Progress
	opts.Progress = func(p domain.FetchProgress) {
		if p.Err != nil {
			result.Interrupted = p.Err
		} else {
			result.Pages = p.Page
		}
		if caller != nil {
			caller(p)
		}
	}

	logger.Section(fmt.Sprintf("Fetch %s", source))
	raws, err := s.aggregator.FetchAll(ctx, adapter, opts)
	if err != nil {
		return nil, err
	}

	datasets, skipped, err := s.aggregator.NormalizeAll(adapter, raws)
	if err != nil {
		return nil, err
	}

	result.Datasets = datasets
	result.Skipped = skipped
	logger.Info("%s: %d datasets over %d pages (%d skipped)", source, len(datasets), result.Pages, len(skipped))
	return result, nil
}
