// Package connectors provides the source adapters for every supported
// dataset repository. Each sub-package knows how to page through one
// repository's API and normalise its records.
//
// NewAdapters builds the full set from application settings at startup.
package connectors
