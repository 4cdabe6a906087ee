package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/service"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP taxonomy:
// not found → 404, validation → 422, lifecycle precondition → 409,
// analysis unconfigured → 503, anything else → 500 (logged, body withheld).
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound,
			errorResponse{Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity,
			errorResponse{Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrPrecondition):
		s.writeJSON(w, http.StatusConflict,
			errorResponse{Error: errorDetail{Code: "precondition_violation", Message: unwrapMessage(err)}})
	case errors.Is(err, service.ErrAnalysisUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable,
			errorResponse{Error: errorDetail{Code: "unavailable", Message: unwrapMessage(err)}})
	default:
		s.log.ErrorContext(r.Context(), "internal error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError,
			errorResponse{Error: errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// badRequest rejects a request before it reaches the service layer
// (missing or malformed body).
func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest,
		errorResponse{Error: errorDetail{Code: "bad_request", Message: message}})
}

// messager is implemented by the domain validation and precondition error
// types: Message() carries the human-readable text without sentinel prefixes.
type messager interface {
	Message() string
}

// unwrapMessage extracts the human-readable message for the response body,
// e.g. "service.Roster.AddVehicle: validation error: plate is required"
// → "plate is required". Errors that do not carry a message fall back to the
// tail after the last wrap prefix.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	var m messager
	if errors.As(err, &m) {
		return m.Message()
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
