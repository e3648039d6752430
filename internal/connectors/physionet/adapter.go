package physionet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter fetches databases from PhysioNet.
type Adapter struct {
	client *apiclient.Client
}

// New creates an adapter for the given API configuration.
func New(cfg apiclient.Config) (*Adapter, error) {
	client, err := apiclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("physionet: %w", err)
	}
	return &Adapter{client: client}, nil
}

// Name returns the source this adapter serves.
func (a *Adapter) Name() domain.SourceName {
	return domain.SourcePhysioNet
}

// FetchPage requests one page of the database listing. The server decides
// the page size, so req.PageSize and req.SortOrder are ignored.
func (a *Adapter) FetchPage(ctx context.Context, req driven.PageRequest) (*driven.Page, error) {
	page, err := apiclient.ParsePageCursor(req.Cursor)
	if err != nil {
		return nil, &domain.FetchError{Source: domain.SourcePhysioNet, Op: "parse cursor", Err: err}
	}
	op := fmt.Sprintf("fetch page %d", page)

	var body json.RawMessage
	query := url.Values{"page": {strconv.Itoa(page)}}
	if err := a.client.GetJSON(ctx, databaseListPath, query, &body); err != nil {
		return nil, &domain.FetchError{Source: domain.SourcePhysioNet, Op: op, Err: err}
	}

	list, hasNext, err := decodeListing(body)
	if err != nil {
		return nil, &domain.FetchError{
			Source: domain.SourcePhysioNet,
			Op:     op,
			Err:    fmt.Errorf("%w: %v", apiclient.ErrMalformedResponse, err),
		}
	}

	out := &driven.Page{Records: make([]domain.RawRecord, len(list))}
	for i, db := range list {
		out.Records[i] = db
	}
	if hasNext {
		out.Next = apiclient.PageCursor(page + 1)
	}
	return out, nil
}
