package oracle

import "errors"

var (
	// ErrEmptyResponse means the reasoning service returned no text at all
	// for a classification request. Not retried here; the caller returns the
	// user to the input step.
	ErrEmptyResponse = errors.New("oracle: empty response")

	// ErrMalformedResponse means the reasoning service returned text that
	// does not satisfy the classification schema.
	ErrMalformedResponse = errors.New("oracle: malformed response")

	// ErrProviderLookup wraps any transport or parse failure during provider
	// discovery. Callers render a degraded state instead of blocking the
	// triage outcome.
	ErrProviderLookup = errors.New("oracle: provider lookup failed")
)
