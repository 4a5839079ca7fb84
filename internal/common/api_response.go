package common

import (
	"encoding/json"
	"net/http"

	"resilient-bharat/prashikshan/internal/apperr"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, dtos.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError sends a standardized JSON error response with an
// explicit status code. For errors carrying an apperr kind prefer
// RespondAppError, which derives the code from the kind.
func RespondError(w http.ResponseWriter, code int, message string, errs map[string]string) {
	writeJSON(w, code, dtos.APIResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// RespondAppError maps an error to the response envelope. Internal
// errors are logged and masked; everything else surfaces its message
// and validation fields to the client.
func RespondAppError(w http.ResponseWriter, err error) {
	e := apperr.From(err)

	if e.Kind == apperr.Internal {
		logging.Error("request failed", "error", err)
		RespondError(w, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	RespondError(w, e.HTTPStatus(), e.Message, e.Fields)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
