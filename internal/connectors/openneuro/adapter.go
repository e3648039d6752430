package openneuro

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// errMissingData is returned when a response carries neither data nor errors.
var errMissingData = errors.New("response has no datasets field")

// Adapter fetches datasets from OpenNeuro.
type Adapter struct {
	client *apiclient.Client
}

// New creates an adapter for the given API configuration.
func New(cfg apiclient.Config) (*Adapter, error) {
	client, err := apiclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("openneuro: %w", err)
	}
	return &Adapter{client: client}, nil
}

// Name returns the source this adapter serves.
func (a *Adapter) Name() domain.SourceName {
	return domain.SourceOpenNeuro
}

// FetchPage requests one page of datasets.
func (a *Adapter) FetchPage(ctx context.Context, req driven.PageRequest) (*driven.Page, error) {
	vars := map[string]any{"first": clampPageSize(req.PageSize)}
	if req.Cursor != "" {
		vars["after"] = req.Cursor
	}

	var resp graphqlResponse
	body := graphqlRequest{Query: datasetsQuery, Variables: vars}
	if err := a.client.PostJSON(ctx, graphqlPath, body, &resp); err != nil {
		return nil, a.fetchError(req.Cursor, err)
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, a.fetchError(req.Cursor, &GraphQLError{Messages: msgs})
	}
	if resp.Data == nil || resp.Data.Datasets == nil {
		return nil, a.fetchError(req.Cursor, errMissingData)
	}

	conn := resp.Data.Datasets
	page := &driven.Page{Records: make([]domain.RawRecord, 0, len(conn.Edges))}
	for _, edge := range conn.Edges {
		if edge.Node == nil {
			continue
		}
		page.Records = append(page.Records, *edge.Node)
	}

	if conn.PageInfo.HasNextPage && conn.PageInfo.EndCursor != nil {
		page.Next = *conn.PageInfo.EndCursor
	}
	return page, nil
}

func (a *Adapter) fetchError(cursor string, err error) error {
	op := "fetch first page"
	if cursor != "" {
		op = fmt.Sprintf("fetch page after %q", cursor)
	}
	return &domain.FetchError{Source: domain.SourceOpenNeuro, Op: op, Err: err}
}

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
