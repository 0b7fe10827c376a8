package errs

import (
	"fmt"
	"net/http"
)

// NewValidationError is the generic 400 for client-caused problems.
func NewValidationError(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, ErrValidation, message)
}

// NewMissingFieldsError reports required fields that were absent or blank.
// The message is the one clients already match on, e.g.
// "title and description are required".
func NewMissingFieldsError(message string, fields ...string) *ApiErr {
	e := NewValidationError(message)
	if len(fields) == 1 {
		e.Field = fields[0]
	}
	return e
}

func NewInvalidFieldError(field, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		kind:       ErrValidation,
		message:    message,
		Field:      field,
	}
}

func NewWrongTypeError(field, want string) *ApiErr {
	return NewInvalidFieldError(field, fmt.Sprintf("%s must be %s", field, want))
}

// NewEmptyUpdateError is returned when a patch carries no whitelisted field.
func NewEmptyUpdateError() *ApiErr {
	return NewValidationError("No valid fields to update")
}
