package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// ErrorResponse is the JSON body written for every error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Status converts domain/infra errors into an HTTP status code and a stable
// machine-readable code string. Keeps handlers clean by centralizing mapping.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, ErrBlocked):
		return http.StatusForbidden, "blocked"

	case errors.Is(err, ErrAlreadySwiped):
		return http.StatusConflict, "already_swiped"

	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "email_taken"

	case errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized, "bad_credentials"

	case errors.Is(err, ErrPreferencesNotFound):
		return http.StatusNotFound, "preferences_not_found"

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"

	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "service_unavailable"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"

	case errors.Is(err, context.Canceled):
		return 499, "canceled"

	default:
		return http.StatusInternalServerError, "internal"
	}
}

// Respond writes err as a JSON error response with the mapped status code.
func Respond(w http.ResponseWriter, err error) {
	status, code := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// don't leak internals to clients
		msg = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: code})
}
