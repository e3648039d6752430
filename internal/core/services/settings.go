package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/scidata/internal/core/domain"
	"github.com/custodia-labs/scidata/internal/core/ports/driven"
	"github.com/custodia-labs/scidata/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyIndexPath       = "index.path"
	keyFetchPageSize   = "fetch.page_size"
	keyFetchMaxRecords = "fetch.max_records"
	keyFetchPolicy     = "fetch.normalize_policy"

	sourceKeyPrefix = "sources."
	sourceBaseURL   = "base_url"
	sourceTimeout   = "timeout_seconds"
	sourceRateLimit = "rate_limit"
)

// sourceKey builds "sources.<name>.<field>".
func sourceKey(name domain.SourceName, field string) string {
	return sourceKeyPrefix + string(name) + "." + field
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Index: domain.IndexSettings{
			Path: s.configStore.GetString(keyIndexPath),
		},
		Fetch: domain.FetchSettings{
			PageSize:        s.getInt(keyFetchPageSize, defaults.Fetch.PageSize),
			MaxRecords:      s.getInt(keyFetchMaxRecords, defaults.Fetch.MaxRecords),
			NormalizePolicy: s.getPolicy(defaults.Fetch.NormalizePolicy),
		},
		Sources: make(map[domain.SourceName]domain.SourceSettings),
	}

	for _, name := range domain.AllSources() {
		settings.Sources[name] = domain.SourceSettings{
			BaseURL:        s.configStore.GetString(sourceKey(name, sourceBaseURL)),
			TimeoutSeconds: s.configStore.GetInt(sourceKey(name, sourceTimeout)),
			RateLimit:      s.configStore.GetFloat(sourceKey(name, sourceRateLimit)),
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyIndexPath:       settings.Index.Path,
		keyFetchPageSize:   settings.Fetch.PageSize,
		keyFetchMaxRecords: settings.Fetch.MaxRecords,
		keyFetchPolicy:     settings.Fetch.NormalizePolicy.String(),
	}
	for name, src := range settings.Sources {
		values[sourceKey(name, sourceBaseURL)] = src.BaseURL
		values[sourceKey(name, sourceTimeout)] = src.TimeoutSeconds
		values[sourceKey(name, sourceRateLimit)] = src.RateLimit
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.configStore.Set(k, values[k]); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return s.configStore.Save()
}

// Set parses value according to key and persists it.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := parseSetting(key, strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Keys returns every supported setting key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{keyIndexPath, keyFetchPageSize, keyFetchMaxRecords, keyFetchPolicy}
	for _, name := range domain.AllSources() {
		keys = append(keys,
			sourceKey(name, sourceBaseURL),
			sourceKey(name, sourceTimeout),
			sourceKey(name, sourceRateLimit),
		)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseSetting(key, value string) (any, error) {
	switch key {
	case keyIndexPath:
		return value, nil
	case keyFetchPageSize, keyFetchMaxRecords:
		return parseNonNegativeInt(key, value)
	case keyFetchPolicy:
		policy := domain.NormalizePolicy(value)
		if !policy.IsValid() {
			return nil, fmt.Errorf("%w: %s must be %q or %q", domain.ErrInvalidInput, key,
				domain.NormalizeSkip, domain.NormalizeStrict)
		}
		return policy.String(), nil
	}

	name, field, ok := splitSourceKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if !name.IsValid() {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, name)
	}

	switch field {
	case sourceBaseURL:
		return value, nil
	case sourceTimeout:
		return parseNonNegativeInt(key, value)
	case sourceRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func parseNonNegativeInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func splitSourceKey(key string) (domain.SourceName, string, bool) {
	rest, ok := strings.CutPrefix(key, sourceKeyPrefix)
	if !ok {
		return "", "", false
	}
	name, field, ok := strings.Cut(rest, ".")
	if !ok {
		return "", "", false
	}
	return domain.SourceName(name), field, true
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getPolicy(defaultVal domain.NormalizePolicy) domain.NormalizePolicy {
	policy := domain.NormalizePolicy(s.configStore.GetString(keyFetchPolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
