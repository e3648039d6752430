package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/logger"
)

// Aggregator drives an adapter's pagination to completion and applies the
// normalisation policy to the raw records it collected.
type Aggregator struct {
	policy domain.NormalizePolicy
}

// NewAggregator creates an aggregator. An invalid policy falls back to skip.
func NewAggregator(policy domain.NormalizePolicy) *Aggregator {
	if !policy.IsValid() {
		policy = domain.NormalizeSkip
	}
	return &Aggregator{policy: policy}
}

// Policy returns the normalisation policy in effect.
func (g *Aggregator) Policy() domain.NormalizePolicy {
	return g.policy
}

// FetchAll requests pages until the source is exhausted, a page comes back
// empty, or MaxRecords is reached (the result is then trimmed to exactly
// MaxRecords).
//
// A failure on the first page is returned. A failure on a later page stops
// pagination: the records gathered so far are returned with a nil error and
// the failure is logged and reported through opts.Progress.
func (g *Aggregator) FetchAll(
	ctx context.Context,
	adapter driven.SourceAdapter,
	opts domain.FetchOptions,
) ([]domain.RawRecord, error) {
	source := adapter.Name()
	report := func(p domain.FetchProgress) {
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}

	var records []domain.RawRecord
	cursor := ""

	for page := 1; ; page++ {
		resp, err := adapter.FetchPage(ctx, driven.PageRequest{
			Cursor:    cursor,
			PageSize:  opts.PageSize,
			SortOrder: opts.SortOrder,
			Query:     opts.Query,
		})
		if err != nil {
			if !domain.IsFetchError(err) {
				err = &domain.FetchError{Source: source, Op: fmt.Sprintf("fetch page %d", page), Err: err}
			}
			report(domain.FetchProgress{Source: source, Page: page, Fetched: len(records), Err: err})
			if page == 1 {
				return nil, err
			}
			logger.Warn("%s: pagination stopped at page %d with %d records: %v", source, page, len(records), err)
			return records, nil
		}

		records = append(records, resp.Records...)
		report(domain.FetchProgress{Source: source, Page: page, Fetched: len(records)})
		logger.Debug("%s: page %d returned %d records (total %d)", source, page, len(resp.Records), len(records))

		if len(resp.Records) == 0 {
			break
		}
		if opts.MaxRecords > 0 && len(records) >= opts.MaxRecords {
			records = records[:opts.MaxRecords]
			break
		}
		if resp.Next == "" {
			break
		}
		// A repeated cursor would loop forever.
		if resp.Next == cursor {
			logger.Warn("%s: cursor %q repeated, stopping", source, cursor)
			break
		}
		cursor = resp.Next
	}

	return records, nil
}

// NormalizeAll converts raw records with the adapter.
//
// Under NormalizeSkip a failing record is logged, collected in skipped and
// left out. Under NormalizeStrict the first failure is returned as err.
func (g *Aggregator) NormalizeAll(
	adapter driven.SourceAdapter,
	raws []domain.RawRecord,
) (datasets []domain.Dataset, skipped []error, err error) {
	datasets = make([]domain.Dataset, 0, len(raws))
	for _, raw := range raws {
		d, nerr := adapter.Normalize(raw)
		if nerr != nil {
			if g.policy == domain.NormalizeStrict {
				return nil, nil, nerr
			}
			logger.Warn("skipping record: %v", nerr)
			skipped = append(skipped, nerr)
			continue
		}
		datasets = append(datasets, d)
	}
	return datasets, skipped, nil
}
