package driven

// ConfigStore holds flat dotted keys such as "fetch.page_size" or
// "sources.zenodo.rate_limit". The typed getters return the zero value
// for missing keys and for values of another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts any integer representation the backing format produces.
	GetInt(key string) int

	// GetFloat accepts integers too, since "rate_limit = 2" is one.
	GetFloat(key string) float64

	// Set updates a value in memory. Nothing is written until Save.
	Set(key string, value any) error

	// Save persists every value.
	Save() error

	// Path returns where Save writes.
	Path() string
}
