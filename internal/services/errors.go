package services

import (
	"errors"
	"net/http"

	lms_errors "lms-api/pkg/errors"
)

// HTTPStatus maps service errors onto the status codes of the public API.
// Conflicts are reported as 400 to keep the existing registration contract.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, lms_errors.ErrValidation), errors.Is(err, lms_errors.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, lms_errors.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, lms_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, lms_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lms_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, lms_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to API clients for err.
func PublicMessage(err error) string {
	var appErr *lms_errors.Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
