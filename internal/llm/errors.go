package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies provider failures for retry decisions.
type ErrorKind int

const (
	KindUnavailable ErrorKind = iota
	KindRateLimit
	KindInvalidResponse
	KindTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimit:
		return "rate limited"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	default:
		return "provider unavailable"
	}
}

// Error is returned by every Provider implementation.
type Error struct {
	Kind ErrorKind

	// RetryAfter is the server-suggested wait for KindRateLimit.
	RetryAfter time.Duration

	// Content is the offending output for KindInvalidResponse and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, and false when err is not an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func unavailable(err error) error { return &Error{Kind: KindUnavailable, Err: err} }

func rateLimited(err error) error { return &Error{Kind: KindRateLimit, Err: err} }

func invalidResponse(content json.RawMessage, err error) error {
	return &Error{Kind: KindInvalidResponse, Content: content, Err: err}
}

// classifyStatus maps an HTTP status from a provider SDK error.
func classifyStatus(status int, err error) error {
	if status == 429 {
		return rateLimited(err)
	}
	return unavailable(err)
}
