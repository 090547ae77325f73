package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vbonduro/kitroom/internal/service"
)

type errorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Available *int              `json:"available,omitempty"`
	Requested *int              `json:"requested,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var short *service.InsufficientStockError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid input", Fields: verr.Fields})
	case errors.As(err, &short):
		s.writeJSON(w, http.StatusConflict, errorBody{
			Error:     "insufficient stock",
			Available: &short.Available,
			Requested: &short.Requested,
		})
	case errors.Is(err, service.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, service.ErrBackendUnavailable):
		s.logger.Warn("record store unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "record store unavailable"})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func badField(field, msg string) error {
	return &service.ValidationError{Fields: map[string]string{field: msg}}
}
