package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/svcmap/pkg/errors"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Status  int         `json:"-"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (e *APIError) Error() string { return string(e.Code) + ": " + e.Message }

// StatusFor maps an error code to an HTTP status: INVALID_* → 400,
// *NOT_FOUND → 404, UNSUPPORTED → 415, anything else → 500.
func StatusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// toAPIError converts err. Internal errors keep a generic message so
// details stay in the server log.
func toAPIError(err error) *APIError {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return &APIError{Status: status, Code: code, Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
