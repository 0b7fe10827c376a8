package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every ApiErr unwraps to exactly one of these.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotConfigured = errors.New("server not configured")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream failure")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrCORSBlocked   = errors.New("request blocked by CORS policy")
)

type ApiErr struct {
	StatusCode int
	kind       error
	message    string
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		kind:       kind,
		message:    message,
	}
}

// Error returns the client-facing message.
func (e *ApiErr) Error() string {
	return e.message
}

// GetFullError returns the message followed by the chain of causes.
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ApiErr) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

func NewNotFoundError(message string) *ApiErr {
	return NewApiErr(http.StatusNotFound, ErrNotFound, message)
}

func NewUnauthorizedError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		kind:       ErrUnauthorized,
		message:    "unauthorized",
		Details:    details,
		Field:      "authorization",
	}
}

func NewRateLimitedError() *ApiErr {
	return NewApiErr(http.StatusTooManyRequests, ErrRateLimited, "too many requests")
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		kind:       ErrCORSBlocked,
		message:    ErrCORSBlocked.Error(),
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

// NewConfigurationError reports a missing environment setting. It is raised
// before any I/O is attempted.
func NewConfigurationError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		kind:       ErrNotConfigured,
		message:    fmt.Sprintf("Server not configured: %s is missing", key),
		Field:      key,
	}
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
