package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/messagely/messagely/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps service error kinds to HTTP status codes. Anything
// outside the enumerated kinds is a 500 and its details stay server-side.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", msg)
		msg = "internal error"
	}

	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "response encode failed", "error", err.Error())
	}
}
