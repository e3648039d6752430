package domain

// DefaultMaxRecords is the fetch cap applied by the tool surfaces when the
// caller does not provide one.
const DefaultMaxRecords = 100

// FetchOptions controls a paginated fetch from one source.
type FetchOptions struct {
	// MaxRecords caps the number of raw records. Zero or negative means unlimited.
	MaxRecords int

	// PageSize is the requested page size; adapters clamp it to their ceiling.
	PageSize int

	// SortOrder is passed through to sources that support ordering.
	SortOrder string

	// Query is a free-text query for sources that support one (zenodo).
	Query string

	// Progress, if set, is called after every page request.
	Progress func(FetchProgress)
}

// FetchProgress reports the state of a fetch after one page request.
type FetchProgress struct {
	Source SourceName

	// Page is the 1-based page number just requested.
	Page int

	// Fetched is the running number of raw records accumulated.
	Fetched int

	// Err is set when the page request failed and pagination stopped.
	Err error
}

// FetchResult is the outcome of fetching and normalising one source.
type FetchResult struct {
	Source   SourceName
	Datasets []Dataset

	// Pages is the number of page requests issued.
	Pages int

	// Skipped holds one error per raw record dropped during normalisation.
	Skipped []error

	// Interrupted is set when a later page failed and Datasets is partial.
	Interrupted error
}

// Partial reports whether pagination stopped on a failure.
func (r *FetchResult) Partial() bool {
	return r.Interrupted != nil
}
