// Package openneuro implements the source adapter for OpenNeuro.
//
// OpenNeuro exposes BIDS datasets through a GraphQL API. Pages are
// requested with the relay-style `first`/`after` arguments and the
// continuation cursor is the `pageInfo.endCursor` of the previous page.
package openneuro
