package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error is the API error taxonomy. Handlers return these (directly or
// wrapped) and the boundary wrapper renders the error envelope; anything
// that is not an *Error becomes a generic 500.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// WithDetails attaches field-level detail strings to the error.
func (e *Error) WithDetails(details ...string) *Error {
	out := *e
	out.Details = append(append([]string(nil), e.Details...), details...)
	return &out
}

// Validation reports malformed or missing input.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized reports missing, invalid, or expired credentials.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated requester that does not own the record.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound reports a missing record.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// TooManyRequests reports a caller that exceeded its rate budget.
func TooManyRequests(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: message}
}

// Unavailable reports a storage timeout; callers may retry.
func Unavailable(message string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: message}
}

// FromError normalizes any error into an *Error. Context deadline failures
// map to 503 so storage timeouts are reported as retryable.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Unavailable("storage temporarily unavailable")
	}
	return &Error{Status: http.StatusInternalServerError, Message: "something went wrong"}
}
