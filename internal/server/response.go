package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"rating-tracker/internal/common/errors"
)

// ErrorResponse is the standard error shape returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError maps StandardError codes to HTTP statuses. Unknown errors
// become an opaque 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		status := http.StatusInternalServerError
		switch stdErr.Code {
		case errors.ErrCodeUserNotFound:
			status = http.StatusNotFound
		case errors.ErrCodeValidationFailed:
			status = http.StatusBadRequest
		case errors.ErrCodeDuplicateUser:
			status = http.StatusConflict
		case errors.ErrCodePersistenceFailed, errors.ErrCodeCacheFailed:
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, ErrorResponse{
			Error:   string(stdErr.Code),
			Message: stdErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "An internal error occurred",
	})
}
