package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scidata/internal/adapters/driving/cli"
	"github.com/custodia-labs/scidata/internal/core/domain"
)

func TestResolveDBPath(t *testing.T) {
	path, err := resolveDBPath("/flag.db", "/config.db")
	require.NoError(t, err)
	assert.Equal(t, "/flag.db", path)

	path, err = resolveDBPath("", "/config.db")
	require.NoError(t, err)
	assert.Equal(t, "/config.db", path)

	path, err = resolveDBPath("", "")
	require.NoError(t, err)
	assert.Equal(t, "datasets.db", filepath.Base(path))
}

func TestBuildServices(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "index", "datasets.db")

	svc, err := buildServices(cli.Options{ConfigDir: filepath.Join(dir, "config"), DBPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.Equal(t, dbPath, svc.Index.Path())
	assert.Len(t, svc.Sources.List(), len(domain.AllSources()))

	stats, err := svc.Index.Stats(t.Context())
	require.NoError(t, err)
	assert.False(t, stats.Exists)
}

func TestBuildServices_UsesConfiguredIndexPath(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	configured := filepath.Join(dir, "custom.db")

	svc, err := buildServices(cli.Options{ConfigDir: configDir})
	require.NoError(t, err)
	require.NoError(t, svc.Settings.Set("index.path", configured))
	require.NoError(t, svc.Close())

	svc, err = buildServices(cli.Options{ConfigDir: configDir})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })
	assert.Equal(t, configured, svc.Index.Path())
}
