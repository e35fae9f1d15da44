package models

import "errors"

// Failure kinds shared by every stage of the publish pipeline. Stages wrap
// one of these sentinels so callers can classify a failure with errors.Is
// without inspecting message text.
var (
	// ErrConfiguration is returned when a required credential or identifier
	// is missing. No network call is attempted in this case.
	ErrConfiguration = errors.New("required configuration missing")

	// ErrInvalidInput is returned when an upstream stage handed over an
	// empty or absent value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream is returned on transport failures, non-2xx responses and
	// GraphQL error arrays from a dependency.
	ErrUpstream = errors.New("upstream request failed")

	// ErrUnexpectedShape is returned when a dependency answered successfully
	// but the expected field is missing from the payload. Kept distinct from
	// ErrUpstream so a broken contract is distinguishable from an outage.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrNotFound is returned when a persisted record does not exist.
	ErrNotFound = errors.New("record not found")
)
