package domain

import "errors"

// Domain errors represent sourcing-pass failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested node does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingNaturalKey indicates a record has no name/title to
	// derive a node identifier from. Such records are skipped.
	ErrMissingNaturalKey = errors.New("missing natural key")

	// ErrMalformedPayload indicates a feed response was not valid JSON
	// of the expected shape. The feed's pass is abandoned.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrFeedUnavailable indicates a feed request failed with a
	// non-success outcome.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrFeedDisabled indicates a credential-gated feed was not wired
	// because its credential is absent. This is a skip, not a failure.
	ErrFeedDisabled = errors.New("feed disabled")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
