package errors

import (
	"errors"
	"net/http"
)

// HTTPError carries the status code and the message shown to the caller.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// ErrInternalServerError hides upstream detail from the caller.
var ErrInternalServerError = NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))

// AsHTTPError unwraps err into an HTTPError, falling back to 500.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return ErrInternalServerError
}
