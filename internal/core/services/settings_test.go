package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scidata/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scidata/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 100, settings.Fetch.PageSize)
	assert.Equal(t, 0, settings.Fetch.MaxRecords)
	assert.Equal(t, domain.NormalizeSkip, settings.Fetch.NormalizePolicy)
	assert.Empty(t, settings.Index.Path)
	assert.Len(t, settings.Sources, len(domain.AllSources()))
	assert.Equal(t, domain.DefaultAppSettings(), svc.GetDefaults())
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	in := domain.DefaultAppSettings()
	in.Index.Path = "/data/datasets.db"
	in.Fetch.PageSize = 25
	in.Fetch.MaxRecords = 500
	in.Fetch.NormalizePolicy = domain.NormalizeStrict
	in.Sources[domain.SourceZenodo] = domain.SourceSettings{
		BaseURL:        "http://localhost:9000/api",
		TimeoutSeconds: 5,
		RateLimit:      0.5,
	}

	require.NoError(t, svc.Save(&in))
	assert.Equal(t, 1, store.Saves())

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, s *domain.AppSettings)
	}{
		{"index.path", " /tmp/x.db ", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "/tmp/x.db", s.Index.Path)
		}},
		{"fetch.page_size", "40", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 40, s.Fetch.PageSize)
		}},
		{"fetch.max_records", "0", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 0, s.Fetch.MaxRecords)
		}},
		{"fetch.normalize_policy", "strict", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.NormalizeStrict, s.Fetch.NormalizePolicy)
		}},
		{"sources.dandi.base_url", "http://mirror/api", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "http://mirror/api", s.Source(domain.SourceDANDI).BaseURL)
		}},
		{"sources.physionet.timeout_seconds", "12", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 12, s.Source(domain.SourcePhysioNet).TimeoutSeconds)
		}},
		{"sources.openneuro.rate_limit", "1.5", func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 1.5, s.Source(domain.SourceOpenNeuro).RateLimit, 1e-9)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			svc := NewSettingsService(store)

			require.NoError(t, svc.Set(tt.key, tt.value))
			assert.Equal(t, 1, store.Saves())

			settings, err := svc.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_SetRejects(t *testing.T) {
	tests := []struct {
		key, value string
		want       error
	}{
		{"fetch.page_size", "many", domain.ErrInvalidInput},
		{"fetch.max_records", "-1", domain.ErrInvalidInput},
		{"fetch.normalize_policy", "lenient", domain.ErrInvalidInput},
		{"ui.theme", "dark", domain.ErrInvalidInput},
		{"sources.dandi", "x", domain.ErrInvalidInput},
		{"sources.dandi.colour", "x", domain.ErrInvalidInput},
		{"sources.figshare.base_url", "x", domain.ErrUnsupportedType},
		{"sources.zenodo.rate_limit", "-2", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Equal(t, 0, store.Saves())
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()
	assert.Len(t, keys, 4+3*len(domain.AllSources()))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "sources.zenodo.rate_limit")
	assert.Contains(t, keys, "fetch.normalize_policy")
}

func TestSettingsService_InvalidStoredPolicyFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("fetch.normalize_policy", "bogus"))

	settings, err := NewSettingsService(store).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.NormalizeSkip, settings.Fetch.NormalizePolicy)
}
