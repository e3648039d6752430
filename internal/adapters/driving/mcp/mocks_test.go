package mcp

import (
	"context"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// mockFetchService is a mock implementation of driving.FetchService.
type mockFetchService struct {
	result *domain.FetchResult
	err    error

	source domain.SourceName
	opts   domain.FetchOptions
}

func (m *mockFetchService) Fetch(
	_ context.Context,
	source domain.SourceName,
	opts domain.FetchOptions,
) (*domain.FetchResult, error) {
	m.source = source
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.FetchResult{Source: source}, nil
	}
	return m.result, nil
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	counts  map[domain.SourceName]int
	results []domain.Dataset
	stats   *domain.IndexStats
	err     error

	built      []domain.SourceName
	searchOpts domain.SearchOptions
}

func (m *mockIndexService) Rebuild(_ context.Context, sources []domain.SourceName) (map[domain.SourceName]int, error) {
	m.built = sources
	return m.counts, m.err
}

func (m *mockIndexService) Update(_ context.Context, source domain.SourceName) (int, error) {
	return m.counts[source], m.err
}

func (m *mockIndexService) Search(_ context.Context, opts domain.SearchOptions) ([]domain.Dataset, error) {
	m.searchOpts = opts
	return m.results, m.err
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.IndexStats, error) {
	if m.stats == nil {
		return &domain.IndexStats{Path: m.Path()}, m.err
	}
	return m.stats, m.err
}

func (m *mockIndexService) Clear(_ context.Context) (bool, error) {
	return false, m.err
}

func (m *mockIndexService) Path() string {
	return "/tmp/scidata/datasets.db"
}

// mockCatalogue is a mock implementation of driving.SourceCatalogue.
type mockCatalogue struct {
	sources []domain.SourceInfo
}

func (m *mockCatalogue) List() []domain.SourceInfo {
	return m.sources
}

func (m *mockCatalogue) Info(name domain.SourceName) (domain.SourceInfo, error) {
	for _, s := range m.sources {
		if s.Name == name {
			return s, nil
		}
	}
	return domain.SourceInfo{}, domain.ErrNotFound
}
