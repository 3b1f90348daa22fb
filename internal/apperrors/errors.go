package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Callers match with errors.Is and decide whether to retry,
// reauthenticate or give up.
var (
	ErrAuthentication       = errors.New("authentication failed")
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrNotFound             = errors.New("not found")
	ErrRateLimited          = errors.New("rate limited")
	ErrSchema               = errors.New("unexpected upstream payload")
	ErrTransport            = errors.New("transport failure")

	ErrInvalidFilter = errors.New("invalid filter expression")

	ErrInvalidCursor        = errors.New("invalid pagination cursor")
	ErrCursorFilterMismatch = errors.New("cursor filters do not match request filters")
	ErrDeepPagination       = errors.New("page index too deep for filtered pagination")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionExpired  = errors.New("session expired")
)

// Error is a structured failure: a kind sentinel, a human readable message
// and an optional remediation hint. RetryAfter is set for rate limit errors
// only. Unwraps to both the kind and the wrapped cause so errors.Is works
// against the sentinels above.
type Error struct {
	Kind    error
	Message string
	Hint    string

	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// HintOf returns the remediation hint if err carries one
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// RetryAfterOf returns the retry-after hint if err carries one
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
