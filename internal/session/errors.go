package session

import "errors"

var (
	// ErrInvalidState is returned for an operation that does not apply to
	// the session as it currently stands.
	ErrInvalidState = errors.New("session: invalid state")

	// ErrPreconditionFailed is returned when toggling the wrong-only filter
	// with no wrong answers recorded.
	ErrPreconditionFailed = errors.New("session: no wrong answers to review")
)
