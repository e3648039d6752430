package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

func sampleDatasets() []domain.Dataset {
	eeg := domain.Dataset{
		Source: domain.SourceOpenNeuro, ID: "ds000001", Name: "Resting EEG",
		NSubjects: 40, Downloads: 300, Modalities: []string{"eeg"},
		Readme: domain.StringPtr("Alzheimer cohort"),
	}
	eeg.SetExtra("bids_version", "1.6.0")

	return []domain.Dataset{
		eeg,
		{Source: domain.SourceOpenNeuro, ID: "ds000002", Name: "Oddball", NSubjects: 12, Downloads: 900,
			Modalities: []string{"eeg"}},
		{Source: domain.SourceOpenNeuro, ID: "ds000003", Name: "Anatomy", NSubjects: 80, Downloads: 50,
			Modalities: []string{"mri"}},
	}
}

func recordIDs(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["id"].(string)
	}
	return out
}

func TestServer_handleFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns normalised datasets with extras", func(t *testing.T) {
		fetch := &mockFetchService{result: &domain.FetchResult{
			Source:   domain.SourceOpenNeuro,
			Datasets: sampleDatasets()[:1],
			Pages:    2,
			Skipped:  []error{errors.New("bad record")},
		}}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, output, err := server.handleFetch(ctx, domain.SourceOpenNeuro, FetchInput{PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, "openneuro", output.Source)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 2, output.Pages)
		assert.Equal(t, 1, output.Skipped)
		assert.Empty(t, output.Warning)

		rec := output.Datasets[0]
		assert.Equal(t, "ds000001", rec["id"])
		assert.Equal(t, "1.6.0", rec["bids_version"])
		assert.Nil(t, rec["created"])
		assert.Equal(t, 10, fetch.opts.PageSize)
	})

	t.Run("max_datasets defaults to 100", func(t *testing.T) {
		fetch := &mockFetchService{}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, _, err := server.handleFetch(ctx, domain.SourceDANDI, FetchInput{})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceDANDI, fetch.source)
		assert.Equal(t, 100, fetch.opts.MaxRecords)
	})

	t.Run("max_datasets zero fetches everything", func(t *testing.T) {
		fetch := &mockFetchService{}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, output, err := server.handleFetch(ctx, domain.SourcePhysioNet, FetchInput{MaxDatasets: domain.IntPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, -1, fetch.opts.MaxRecords)
		assert.NotNil(t, output.Datasets)
		assert.Empty(t, output.Datasets)
	})

	t.Run("zenodo query is passed through", func(t *testing.T) {
		fetch := &mockFetchService{}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, _, err := server.handleFetch(ctx, domain.SourceZenodo, FetchInput{MaxDatasets: domain.IntPtr(5), Query: "sleep"})
		require.NoError(t, err)
		assert.Equal(t, 5, fetch.opts.MaxRecords)
		assert.Equal(t, "sleep", fetch.opts.Query)
	})

	t.Run("partial results carry a warning", func(t *testing.T) {
		fetch := &mockFetchService{result: &domain.FetchResult{
			Datasets:    sampleDatasets(),
			Interrupted: errors.New("HTTP 503"),
		}}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, output, err := server.handleFetch(ctx, domain.SourceOpenNeuro, FetchInput{})
		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Contains(t, output.Warning, "HTTP 503")
	})

	t.Run("returns error on fetch failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Fetch: &mockFetchService{err: errors.New("connection refused")}})

		_, _, err := server.handleFetch(ctx, domain.SourceOpenNeuro, FetchInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("fetchHandler binds the source", func(t *testing.T) {
		fetch := &mockFetchService{}
		server := newTestServer(t, &Ports{Fetch: fetch})

		_, _, err := server.fetchHandler(domain.SourceZenodo)(ctx, nil, FetchInput{})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceZenodo, fetch.source)
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{})

	records, err := toRecords(sampleDatasets())
	require.NoError(t, err)

	t.Run("filters and sorts by downloads descending", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Datasets: records, Modality: "EEG"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ds000002", "ds000001"}, recordIDs(output.Datasets))
		assert.Equal(t, 2, output.Count)
	})

	t.Run("sort field, direction and limit", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			Datasets:  records,
			SortBy:    "n_subjects",
			Ascending: true,
			Limit:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ds000002", "ds000001"}, recordIDs(output.Datasets))
	})

	t.Run("text query keeps extras", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Datasets: records, TextQuery: "alzheimer"})
		require.NoError(t, err)
		require.Len(t, output.Datasets, 1)
		assert.Equal(t, "1.6.0", output.Datasets[0]["bids_version"])
	})

	t.Run("no match returns empty list", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Datasets: records, MinSubjects: domain.IntPtr(1000)})
		require.NoError(t, err)
		assert.NotNil(t, output.Datasets)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, _, err := server.handleSearch(ctx, nil, SearchInput{Datasets: records, SortBy: "popularity"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("malformed dataset", func(t *testing.T) {
		_, _, err := server.handleSearch(ctx, nil, SearchInput{Datasets: []Record{{"n_subjects": "many"}}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleListSources(t *testing.T) {
	t.Run("falls back to the static catalogue", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, output, err := server.handleListSources(context.Background(), nil, ListSourcesInput{})
		require.NoError(t, err)
		assert.Equal(t, 4, output.Count)
		assert.Equal(t, domain.SourceOpenNeuro, output.Sources[0].Name)
	})

	t.Run("uses the registered catalogue", func(t *testing.T) {
		catalogue := &mockCatalogue{sources: domain.Catalogue()[:2]}
		server := newTestServer(t, &Ports{Sources: catalogue})

		_, output, err := server.handleListSources(context.Background(), nil, ListSourcesInput{})
		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
	})
}

func TestServer_handleDBBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("reports counts, total and size", func(t *testing.T) {
		index := &mockIndexService{
			counts: map[domain.SourceName]int{domain.SourceOpenNeuro: 3, domain.SourceDANDI: 0},
			stats:  &domain.IndexStats{Exists: true, SizeOnDisk: 2 * 1024 * 1024},
		}
		server := newTestServer(t, &Ports{Index: index})

		_, output, err := server.handleDBBuild(ctx, nil, DBBuildInput{Sources: []string{"OpenNeuro", "dandi"}})
		require.NoError(t, err)
		assert.True(t, output.Success)
		assert.Equal(t, map[string]int{"openneuro": 3, "dandi": 0}, output.Indexed)
		assert.Equal(t, 3, output.Total)
		assert.Equal(t, index.Path(), output.DatabasePath)
		assert.InDelta(t, 2.0, output.SizeMB, 1e-9)
		assert.Equal(t, []domain.SourceName{domain.SourceOpenNeuro, domain.SourceDANDI}, index.built)
	})

	t.Run("empty sources builds all", func(t *testing.T) {
		index := &mockIndexService{counts: map[domain.SourceName]int{}}
		server := newTestServer(t, &Ports{Index: index})

		_, _, err := server.handleDBBuild(ctx, nil, DBBuildInput{})
		require.NoError(t, err)
		assert.Empty(t, index.built)
	})

	t.Run("unknown source", func(t *testing.T) {
		server := newTestServer(t, &Ports{Index: &mockIndexService{}})

		_, _, err := server.handleDBBuild(ctx, nil, DBBuildInput{Sources: []string{"figshare"}})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("rebuild in progress", func(t *testing.T) {
		server := newTestServer(t, &Ports{Index: &mockIndexService{err: domain.ErrRebuildInProgress}})

		_, _, err := server.handleDBBuild(ctx, nil, DBBuildInput{})
		assert.ErrorIs(t, err, domain.ErrRebuildInProgress)
	})

	t.Run("no index wired", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleDBBuild(ctx, nil, DBBuildInput{})
		assert.ErrorIs(t, err, ErrIndexUnavailable)
	})
}

func TestServer_handleDBSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("passes options and default limit", func(t *testing.T) {
		index := &mockIndexService{results: sampleDatasets()[:2]}
		server := newTestServer(t, &Ports{Index: index})

		_, output, err := server.handleDBSearch(ctx, nil, DBSearchInput{
			Query:       "eeg",
			Source:      "openneuro",
			MinSubjects: domain.IntPtr(10),
			OrderBy:     "views",
			Offset:      5,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ds000001", "ds000002"}, recordIDs(output.Datasets))
		assert.Equal(t, 2, output.Count)

		assert.Equal(t, "eeg", index.searchOpts.Query)
		assert.Equal(t, domain.SourceOpenNeuro, index.searchOpts.Source)
		assert.Equal(t, 10, *index.searchOpts.MinSubjects)
		assert.Equal(t, defaultResultLimit, index.searchOpts.Limit)
		assert.Equal(t, 5, index.searchOpts.Offset)
		assert.Equal(t, "views", index.searchOpts.OrderBy)
	})

	t.Run("unknown source", func(t *testing.T) {
		server := newTestServer(t, &Ports{Index: &mockIndexService{}})

		_, _, err := server.handleDBSearch(ctx, nil, DBSearchInput{Source: "figshare"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("store unavailable", func(t *testing.T) {
		cause := &domain.StoreUnavailableError{Path: "/nope", Err: errors.New("permission denied")}
		server := newTestServer(t, &Ports{Index: &mockIndexService{err: cause}})

		_, _, err := server.handleDBSearch(ctx, nil, DBSearchInput{Query: "eeg"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestServer_handleDBStats(t *testing.T) {
	index := &mockIndexService{stats: &domain.IndexStats{
		Exists:        true,
		Path:          "/tmp/scidata/datasets.db",
		TotalDatasets: 7,
		BySource:      map[domain.SourceName]int{domain.SourceZenodo: 7},
		LastBuild:     "2024-05-02T10:00:00Z",
		LastBuildID:   "b-2",
		SizeOnDisk:    1024 * 1024,
	}}
	server := newTestServer(t, &Ports{Index: index})

	_, output, err := server.handleDBStats(context.Background(), nil, DBStatsInput{})
	require.NoError(t, err)
	assert.True(t, output.Exists)
	assert.Equal(t, 7, output.TotalDatasets)
	assert.Equal(t, map[string]int{"zenodo": 7}, output.BySource)
	assert.Equal(t, "b-2", output.LastBuildID)
	assert.InDelta(t, 1.0, output.SizeMB, 1e-9)
}

func TestServer_handleDBStats_NeverBuilt(t *testing.T) {
	server := newTestServer(t, &Ports{Index: &mockIndexService{}})

	_, output, err := server.handleDBStats(context.Background(), nil, DBStatsInput{})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"exists":false}`, string(raw))
}

func TestFetchLimit(t *testing.T) {
	assert.Equal(t, domain.DefaultMaxRecords, fetchLimit(nil))
	assert.Equal(t, -1, fetchLimit(domain.IntPtr(0)))
	assert.Equal(t, -1, fetchLimit(domain.IntPtr(-4)))
	assert.Equal(t, 25, fetchLimit(domain.IntPtr(25)))
}
