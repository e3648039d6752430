package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
)

// fakeRecord is a raw record understood by fakeAdapter.
type fakeRecord struct {
	source    domain.SourceName
	id        string
	downloads int
	bad       bool
}

func (r fakeRecord) RawSource() domain.SourceName { return r.source }

// fakeAdapter serves canned pages. The cursor is the index of the next page.
type fakeAdapter struct {
	name   domain.SourceName
	pages  [][]domain.RawRecord
	failAt int // 1-based page that fails; 0 never fails
	err    error

	// sticky makes every page return the same cursor.
	sticky bool

	requests []driven.PageRequest
}

func (a *fakeAdapter) Name() domain.SourceName { return a.name }

func (a *fakeAdapter) FetchPage(_ context.Context, req driven.PageRequest) (*driven.Page, error) {
	a.requests = append(a.requests, req)

	idx := 0
	if req.Cursor != "" {
		idx, _ = strconv.Atoi(req.Cursor)
	}
	if a.failAt == idx+1 {
		err := a.err
		if err == nil {
			err = &domain.FetchError{Source: a.name, Op: "fetch page " + strconv.Itoa(idx+1), Err: errors.New("boom")}
		}
		return nil, err
	}
	if idx >= len(a.pages) {
		return &driven.Page{}, nil
	}

	page := &driven.Page{Records: a.pages[idx]}
	switch {
	case a.sticky:
		page.Next = "1"
	case idx+1 < len(a.pages):
		page.Next = strconv.Itoa(idx + 1)
	}
	return page, nil
}

func (a *fakeAdapter) Normalize(raw domain.RawRecord) (domain.Dataset, error) {
	r, ok := raw.(fakeRecord)
	if !ok || r.bad {
		return domain.Dataset{}, &domain.NormalizationError{Source: a.name, Reason: "bad record"}
	}
	return domain.Dataset{Source: a.name, ID: r.id, Name: "Dataset " + r.id, Downloads: r.downloads}, nil
}

// records builds n fake records with ids prefix0..prefixN-1.
func records(source domain.SourceName, prefix string, n int) []domain.RawRecord {
	out := make([]domain.RawRecord, n)
	for i := range out {
		out[i] = fakeRecord{source: source, id: prefix + strconv.Itoa(i), downloads: i}
	}
	return out
}
