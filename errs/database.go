package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return NewNotFoundError(fmt.Sprintf("%s not found", entity))
}

// NewDatabaseError wraps a driver error. The driver's message is surfaced to
// the client; the operation goes into Details.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		cause = ErrDatabaseQuery
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)
	if isConnectionFailure(cause) {
		details = "Unable to connect to database"
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		kind:       ErrUpstream,
		message:    cause.Error(),
		Details:    details,
		Cause:      cause,
	}
}

// NewConnectionError wraps a failed connection attempt.
func NewConnectionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		kind:       ErrUpstream,
		message:    cause.Error(),
		Details:    "Unable to connect to database",
		Cause:      fmt.Errorf("%w: %w", ErrDatabaseConnection, cause),
	}
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, ErrDatabaseConnection) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "server selection")
}
