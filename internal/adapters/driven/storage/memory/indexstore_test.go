package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

func seed(t *testing.T, store *IndexStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.ReplaceSource(ctx, domain.SourceOpenNeuro, []domain.Dataset{
		{ID: "ds1", Name: "Alzheimer resting EEG", Downloads: 10, Modalities: []string{"eeg"}},
		{ID: "ds2", Name: "Visual MRI", Downloads: 30, Modalities: []string{"mri"}, Tasks: []string{"checkerboard"}},
	}))
	require.NoError(t, store.ReplaceSource(ctx, domain.SourceDANDI, []domain.Dataset{
		{ID: "000001", Name: "Mouse ephys", Downloads: 30, Readme: domain.StringPtr("alzheimer model")},
	}))
}

func keys(records []domain.Dataset) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Key()
	}
	return out
}

func TestIndexStore_StatsBeforeBuild(t *testing.T) {
	stats, err := NewIndexStore().Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Exists)
	assert.Zero(t, stats.TotalDatasets)
}

func TestIndexStore_SearchRanksAndFilters(t *testing.T) {
	store := NewIndexStore()
	seed(t, store)
	ctx := context.Background()

	all, err := store.Search(ctx, domain.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dandi:000001", "openneuro:ds2", "openneuro:ds1"}, keys(all))

	text, err := store.Search(ctx, domain.SearchOptions{Query: "ALZHEIMER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dandi:000001", "openneuro:ds1"}, keys(text))

	scoped, err := store.Search(ctx, domain.SearchOptions{Query: "alzheimer", Source: domain.SourceOpenNeuro})
	require.NoError(t, err)
	assert.Equal(t, []string{"openneuro:ds1"}, keys(scoped))

	task, err := store.Search(ctx, domain.SearchOptions{Query: "checkerboard"})
	require.NoError(t, err)
	assert.Equal(t, []string{"openneuro:ds2"}, keys(task))

	paged, err := store.Search(ctx, domain.SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"openneuro:ds2"}, keys(paged))

	past, err := store.Search(ctx, domain.SearchOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestIndexStore_UpsertOverwrites(t *testing.T) {
	store := NewIndexStore()
	seed(t, store)

	require.NoError(t, store.ReplaceSource(context.Background(), domain.SourceOpenNeuro, []domain.Dataset{
		{ID: "ds1", Name: "Renamed", Downloads: 99},
	}))
	assert.Equal(t, 3, store.Len())

	got, err := store.Search(context.Background(), domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got[0].Name)
}

func TestIndexStore_StatsAndClear(t *testing.T) {
	store := NewIndexStore()
	seed(t, store)
	ctx := context.Background()

	built := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.SaveBuildMetadata(ctx, domain.BuildMetadata{LastBuild: built, TotalDatasets: 3, BuildID: "b1"}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Exists)
	assert.Equal(t, 3, stats.TotalDatasets)
	assert.Equal(t, 2, stats.BySource[domain.SourceOpenNeuro])
	assert.Equal(t, "2026-01-02T03:04:05Z", stats.LastBuild)
	assert.Equal(t, "b1", stats.LastBuildID)

	existed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestIndexStore_FailWrites(t *testing.T) {
	store := NewIndexStore()
	store.FailWrites = errors.New("disk full")

	err := store.ReplaceSource(context.Background(), domain.SourceZenodo, []domain.Dataset{{ID: "1"}})
	assert.EqualError(t, err, "disk full")
	assert.Zero(t, store.Len())
}

func TestWriteLock(t *testing.T) {
	l := NewWriteLock()

	ok, err := l.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryLock()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock())
	assert.False(t, l.Held())
}
