package domain

const unknownDescription = "Unknown"

// NormalizePolicy decides what happens when a single raw record cannot be normalised.
type NormalizePolicy string

// Available normalisation policies.
const (
	// NormalizeSkip logs the failing record, skips it and continues the batch.
	NormalizeSkip NormalizePolicy = "skip"

	// NormalizeStrict aborts the batch at the first failing record.
	NormalizeStrict NormalizePolicy = "strict"
)

// IsValid returns true if the policy is recognised.
func (p NormalizePolicy) IsValid() bool {
	switch p {
	case NormalizeSkip, NormalizeStrict:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p NormalizePolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p NormalizePolicy) Description() string {
	switch p {
	case NormalizeSkip:
		return "Skip invalid records and continue"
	case NormalizeStrict:
		return "Abort on the first invalid record"
	default:
		return unknownDescription
	}
}

// IndexSettings holds local index configuration.
type IndexSettings struct {
	// Path is the SQLite file. Empty means the per-user cache default.
	Path string
}

// FetchSettings holds pagination defaults shared by every source.
type FetchSettings struct {
	// PageSize is the requested page size; adapters clamp it to their ceiling.
	PageSize int

	// MaxRecords caps a fetch; 0 means unlimited.
	MaxRecords int

	// NormalizePolicy is applied to every normalisation batch.
	NormalizePolicy NormalizePolicy
}

// SourceSettings overrides connection parameters for one source.
type SourceSettings struct {
	// BaseURL replaces the public API endpoint (mirrors, testing).
	BaseURL string

	// TimeoutSeconds is the per-request timeout; 0 keeps the adapter default.
	TimeoutSeconds int

	// RateLimit is requests per second; 0 keeps the adapter default.
	RateLimit float64
}

// AppSettings is the full application configuration.
type AppSettings struct {
	Index   IndexSettings
	Fetch   FetchSettings
	Sources map[SourceName]SourceSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	sources := make(map[SourceName]SourceSettings)
	for _, name := range AllSources() {
		sources[name] = SourceSettings{}
	}
	return AppSettings{
		Fetch: FetchSettings{
			PageSize:        100,
			NormalizePolicy: NormalizeSkip,
		},
		Sources: sources,
	}
}

// Source returns the settings for one source, zero-valued when absent.
func (s AppSettings) Source(name SourceName) SourceSettings {
	if s.Sources == nil {
		return SourceSettings{}
	}
	return s.Sources[name]
}
