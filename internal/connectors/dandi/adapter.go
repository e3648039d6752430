package dandi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter fetches dandisets from the DANDI Archive.
type Adapter struct {
	client *apiclient.Client
}

// New creates an adapter for the given API configuration.
func New(cfg apiclient.Config) (*Adapter, error) {
	client, err := apiclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("dandi: %w", err)
	}
	return &Adapter{client: client}, nil
}

// Name returns the source this adapter serves.
func (a *Adapter) Name() domain.SourceName {
	return domain.SourceDANDI
}

// FetchPage requests one page of non-empty dandisets, drafts included.
func (a *Adapter) FetchPage(ctx context.Context, req driven.PageRequest) (*driven.Page, error) {
	page, err := apiclient.ParsePageCursor(req.Cursor)
	if err != nil {
		return nil, &domain.FetchError{Source: domain.SourceDANDI, Op: "parse cursor", Err: err}
	}

	ordering := req.SortOrder
	if ordering == "" {
		ordering = DefaultOrdering
	}

	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(clampPageSize(req.PageSize))},
		"ordering":  {ordering},
		"draft":     {"true"},
		"empty":     {"false"},
	}

	var resp listResponse
	if err := a.client.GetJSON(ctx, dandisetsPath, query, &resp); err != nil {
		return nil, &domain.FetchError{
			Source: domain.SourceDANDI,
			Op:     fmt.Sprintf("fetch page %d", page),
			Err:    err,
		}
	}

	out := &driven.Page{Records: make([]domain.RawRecord, len(resp.Results))}
	for i, ds := range resp.Results {
		out.Records[i] = ds
	}
	if resp.Next != nil && *resp.Next != "" {
		out.Next = apiclient.PageCursor(page + 1)
	}
	return out, nil
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}
