package physionet

import (
	"time"

	"github.com/custodia-labs/scidata/internal/connectors/apiclient"
)

const (
	// DefaultBaseURL is the public PhysioNet site root.
	DefaultBaseURL = "https://physionet.org"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the request rate in requests per second.
	DefaultRateLimit = 2.0

	// ContentURLPrefix builds the human-facing database page.
	ContentURLPrefix = "https://physionet.org/content/"

	databaseListPath = "rest/database-list/"
)

// DefaultConfig returns the client configuration for the public site.
func DefaultConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}
