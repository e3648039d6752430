package openneuro

import (
	"time"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
)

const (
	// DefaultBaseURL is the public OpenNeuro API root.
	DefaultBaseURL = "https://openneuro.org/crn"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the request rate in requests per second.
	DefaultRateLimit = 2.0

	// MaxPageSize is the largest `first` argument the API accepts.
	MaxPageSize = 100

	// DatasetURLPrefix builds the human-facing dataset page.
	DatasetURLPrefix = "https://openneuro.org/datasets/"

	graphqlPath = "graphql"
)

// DefaultConfig returns the client configuration for the public API.
func DefaultConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}
