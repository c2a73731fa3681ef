package common

import (
	"errors"
	"net/http"
)

// APIError is a domain failure that carries the HTTP status it maps to and a
// message safe to show to the client. The wrapped cause is kept for logs.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel matching the status code and the cause,
// so errors.Is(err, ErrorNotFound) works for a 404 APIError.
func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := sentinelFor(e.StatusCode); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrorBadRequest
	case http.StatusUnauthorized:
		return ErrorUnauthorized
	case http.StatusNotFound:
		return ErrorNotFound
	case http.StatusConflict:
		return ErrorConflict
	case http.StatusInternalServerError:
		return ErrorInternal
	}
	return nil
}

// NewAPIError builds an APIError with the given status and message.
func NewAPIError(status int, message string, cause error) *APIError {
	return &APIError{StatusCode: status, Message: message, Err: cause}
}

func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string, cause error) *APIError {
	return NewAPIError(http.StatusUnauthorized, message, cause)
}

func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message, nil)
}

func Conflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message, nil)
}

func Internal(message string, cause error) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, cause)
}

// StatusOf returns the HTTP status carried by err and its client message.
// Errors that are not APIErrors map to 500 with a generic message.
func StatusOf(err error) (int, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}
	return http.StatusInternalServerError, ErrorInternal.Error()
}
