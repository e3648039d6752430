package zenodo

import (
	"time"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
)

const (
	// DefaultBaseURL is the public Zenodo API root.
	DefaultBaseURL = "https://zenodo.org/api"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultRateLimit is the request rate in requests per second.
	DefaultRateLimit = 1.0

	// MaxPageSize is the anonymous page size ceiling for filtered queries.
	MaxPageSize = 25

	// DefaultSort lists the newest records first.
	DefaultSort = "mostrecent"

	// DefaultResourceType restricts searches to datasets.
	DefaultResourceType = "dataset"

	// RecordURLPrefix builds the record page when the API omits links.html.
	RecordURLPrefix = "https://zenodo.org/record/"

	recordsPath = "records"
)

// DefaultConfig returns the client configuration for the public API.
func DefaultConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithResourceType changes the resource type filter. Empty disables it.
func WithResourceType(t string) Option {
	return func(a *Adapter) {
		a.resourceType = t
	}
}
