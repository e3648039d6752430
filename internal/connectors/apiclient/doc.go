// Package apiclient is the HTTP plumbing shared by every source connector.
//
// A Client issues single JSON requests against one API base URL with a
// fixed per-request timeout and a token-bucket rate limiter. It never
// retries: a non-success status is returned as *APIError (or
// *RateLimitError for 429) so that the caller decides what to do.
package apiclient
