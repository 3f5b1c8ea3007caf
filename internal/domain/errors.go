package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNetwork indicates the backend is unreachable
	ErrNetwork = errors.New("catalog service is unreachable")

	// ErrAuthFailed indicates the token is missing, expired or invalid
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates the request or response failed validation
	ErrValidation = errors.New("validation failed")

	// ErrServer indicates the backend reported an internal error
	ErrServer = errors.New("catalog service error")

	// ErrNotStreamable indicates the episode carries no media locator
	ErrNotStreamable = errors.New("episode is not available for streaming")

	// ErrPlayerInit indicates the media player could not be constructed
	ErrPlayerInit = errors.New("player initialization failed")

	// ErrStale indicates a late-arriving result no longer matches current
	// state; it is discarded and logged, never surfaced to the user
	ErrStale = errors.New("stale playback result discarded")
)
