// Package apierr defines the error taxonomy for backend API failures.
//
// Every failed call maps to exactly one kind; callers branch on Kind and
// never retry. The backend reports failures as a {message} JSON envelope,
// which is surfaced verbatim when present.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure.
type Kind int

const (
	// KindValidation is a 400/422 rejection of the submitted payload.
	KindValidation Kind = iota
	// KindInvalidCredentials is a 401 from the login endpoint.
	KindInvalidCredentials
	// KindUnauthorized is a 401 from any authenticated endpoint; the
	// session is no longer valid.
	KindUnauthorized
	// KindForbidden is a 403; the session lacks the required role.
	KindForbidden
	// KindNotFound is a 404 on a resource.
	KindNotFound
	// KindServer is a 5xx backend failure.
	KindServer
	// KindUnreachable is a transport-level failure before any response.
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Error is a classified API failure.
type Error struct {
	ErrKind Kind
	// Status is the HTTP status that produced this error, 0 for
	// transport failures.
	Status int
	// Message is the backend-provided message, or a generic fallback.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (status %d): %s", e.ErrKind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.ErrKind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation creates a validation error.
func Validation(status int, message string) *Error {
	if message == "" {
		message = "the submitted data was rejected"
	}
	return &Error{ErrKind: KindValidation, Status: status, Message: message}
}

// InvalidCredentials creates a failed-login error.
func InvalidCredentials(message string) *Error {
	if message == "" {
		message = "invalid username or password"
	}
	return &Error{ErrKind: KindInvalidCredentials, Status: http.StatusUnauthorized, Message: message}
}

// Unauthorized creates a stale-session error.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "session expired"
	}
	return &Error{ErrKind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// Forbidden creates a missing-role error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return &Error{ErrKind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

// NotFound creates a missing-resource error.
func NotFound(message string) *Error {
	if message == "" {
		message = "resource not found"
	}
	return &Error{ErrKind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Server creates a backend failure error.
func Server(status int, message string) *Error {
	if message == "" {
		message = "the server reported an error"
	}
	return &Error{ErrKind: KindServer, Status: status, Message: message}
}

// Unreachable wraps a transport failure.
func Unreachable(cause error) *Error {
	return &Error{ErrKind: KindUnreachable, Message: "server unreachable", Cause: cause}
}

// KindOf returns the kind of err, or (0, false) when err is not an API error.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.ErrKind, true
	}
	return 0, false
}

// Is reports whether err is an API error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// UserMessage returns the message to surface in the UI for err.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "an unexpected error occurred"
}
