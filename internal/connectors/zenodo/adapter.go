package zenodo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter searches Zenodo records.
type Adapter struct {
	client       *apiclient.Client
	resourceType string
}

// New creates an adapter for the given API configuration.
func New(cfg apiclient.Config, opts ...Option) (*Adapter, error) {
	client, err := apiclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("zenodo: %w", err)
	}
	a := &Adapter{client: client, resourceType: DefaultResourceType}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the source this adapter serves.
func (a *Adapter) Name() domain.SourceName {
	return domain.SourceZenodo
}

// FetchPage requests one page of search hits.
func (a *Adapter) FetchPage(ctx context.Context, req driven.PageRequest) (*driven.Page, error) {
	page, err := apiclient.ParsePageCursor(req.Cursor)
	if err != nil {
		return nil, &domain.FetchError{Source: domain.SourceZenodo, Op: "parse cursor", Err: err}
	}

	size := clampPageSize(req.PageSize)
	sort := req.SortOrder
	if sort == "" {
		sort = DefaultSort
	}

	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
		"sort": {sort},
	}
	if q := a.buildQuery(req.Query); q != "" {
		query.Set("q", q)
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, recordsPath, query, &resp); err != nil {
		return nil, &domain.FetchError{
			Source: domain.SourceZenodo,
			Op:     fmt.Sprintf("fetch page %d", page),
			Err:    err,
		}
	}

	hits := resp.Hits.Hits
	out := &driven.Page{Records: make([]domain.RawRecord, len(hits))}
	for i, rec := range hits {
		out.Records[i] = rec
	}
	if len(hits) > 0 && (page-1)*size+len(hits) < int(resp.Hits.Total) {
		out.Next = apiclient.PageCursor(page + 1)
	}
	return out, nil
}

// buildQuery joins the resource type filter and the free-text query.
func (a *Adapter) buildQuery(text string) string {
	var parts []string
	if a.resourceType != "" {
		parts = append(parts, "resource_type.type:"+a.resourceType)
	}
	if text = strings.TrimSpace(text); text != "" {
		parts = append(parts, "("+text+")")
	}
	return strings.Join(parts, " AND ")
}

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
