package dandi

import (
	"time"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
)

const (
	// DefaultBaseURL is the public DANDI API root.
	DefaultBaseURL = "https://api.dandiarchive.org/api"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the request rate in requests per second.
	DefaultRateLimit = 5.0

	// DefaultPageSize is used when the caller does not request one.
	DefaultPageSize = 100

	// MaxPageSize is the largest page_size the API accepts.
	MaxPageSize = 1000

	// DefaultOrdering lists the most recently modified dandisets first.
	DefaultOrdering = "-modified"

	// DandisetURLPrefix builds the human-facing dandiset page.
	DandisetURLPrefix = "https://dandiarchive.org/dandiset/"

	dandisetsPath = "dandisets/"
)

// DefaultConfig returns the client configuration for the public API.
func DefaultConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}
