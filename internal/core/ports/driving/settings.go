package driving

import "github.com/custodia-labs/scidata/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key (e.g. "fetch.page_size").
	// The value is parsed according to the key's type.
	Set(key, value string) error

	// Keys returns every supported setting key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
