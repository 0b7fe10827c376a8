package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

type Responder struct {
	logger     zerolog.Logger
	production bool
}

// NewResponder returns a Responder. In production, error bodies carry no
// cause chain and no stack.
func NewResponder(logger zerolog.Logger, production bool) Responder {
	return Responder{logger: logger, production: production}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	// Marshal first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// Anything that is not an ApiErr is an unexpected upstream failure
	if !errors.As(err, &apiErr) {
		apiErr = errs.NewApiErr(http.StatusInternalServerError, errs.ErrUpstream, err.Error())
		apiErr.Cause = err
	}

	response := ErrorResponse{
		OK:      false,
		Error:   apiErr.Error(),
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(err).Str("fullError", apiErr.GetFullError()).Msg("request failed")
	}

	if !r.production {
		// Full error chain for debugging (especially useful for database errors)
		if apiErr.Cause != nil {
			response.Cause = apiErr.GetFullError()
		}
		if apiErr.StatusCode >= http.StatusInternalServerError && errs.IsUpstream(apiErr) {
			response.Stack = string(debug.Stack())
		}
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
