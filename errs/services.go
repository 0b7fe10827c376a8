package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party service errors. These never reach a client from the chat or
// notification paths; they are logged and swallowed there.
var (
	ErrEmptyReply    = errors.New("empty reply")
	ErrConfigMissing = errors.New("configuration missing")
)

func NewServiceError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		kind:       ErrUpstream,
		message:    fmt.Sprintf("%s request failed", service),
		Details:    service,
		Cause:      cause,
	}
}

func NewServiceConfigError(service, key string) error {
	return fmt.Errorf("%s: %w: %s", service, ErrConfigMissing, key)
}
