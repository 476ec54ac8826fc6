package http

import (
	"errors"
	"net/http"

	"nutrition-assistant/internal/chat"
	pkgErrors "nutrition-assistant/pkg/errors"
)

var errInvalidMessages = pkgErrors.NewHTTPError(http.StatusBadRequest, "Invalid messages format")

// mapError translates domain/use-case errors into HTTP errors from pkg/errors.
// Anything unknown is reported as a plain 500 without detail.
func (h *handler) mapError(err error) *pkgErrors.HTTPError {
	switch {
	case errors.Is(err, chat.ErrInvalidMessages):
		return errInvalidMessages
	case errors.Is(err, chat.ErrUpstream):
		return pkgErrors.ErrInternalServerError
	default:
		return pkgErrors.AsHTTPError(err)
	}
}
