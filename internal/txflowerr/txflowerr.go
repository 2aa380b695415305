// Package txflowerr collects the sentinel errors surfaced across
// txflow's package boundaries, so callers (chiefly cmd/txflow) can
// distinguish failure classes with errors.Is regardless of which
// internal package produced them.
package txflowerr

import "errors"

var (
	// ErrMalformedInput is returned when a transaction record fails
	// basic shape validation: empty ids, non-positive amounts, or
	// duplicate ids.
	ErrMalformedInput = errors.New("txflow: malformed input")

	// ErrUpstreamFetch is returned when the external node/explorer
	// collaborator cannot supply a transaction's inputs and outputs.
	ErrUpstreamFetch = errors.New("txflow: upstream fetch failed")

	// ErrOutputSink is returned when writing a result row fails.
	ErrOutputSink = errors.New("txflow: output sink failed")

	// ErrSizeExceeded is returned when the requested search would
	// exceed the configured size-warning threshold and the caller has
	// not confirmed proceeding anyway.
	ErrSizeExceeded = errors.New("txflow: search size exceeds threshold")
)
