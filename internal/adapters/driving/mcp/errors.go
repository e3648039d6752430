// Package mcp provides an MCP (Model Context Protocol) server adapter for scidata.
// It lets AI assistants fetch, filter and search scientific dataset metadata.
package mcp

import "errors"

var (
	// ErrMissingFetchService is returned when the fetch service is not provided.
	ErrMissingFetchService = errors.New("mcp: fetch service is required")

	// ErrMissingFilterService is returned when the filter service is not provided.
	ErrMissingFilterService = errors.New("mcp: filter service is required")

	// ErrIndexUnavailable is returned by the db tools when no index is wired.
	ErrIndexUnavailable = errors.New("mcp: local index is not configured")
)
