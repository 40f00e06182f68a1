package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/uhco-curriculum/lomap/internal/hierarchy"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

type errorResponse struct {
	Error  string           `json:"error"`
	Fields []core.FieldError `json:"fields,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps err to a status: 400 for invalid input, 404 for unknown names, 500 otherwise.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, core.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, hierarchy.ErrCycle):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", slog.Any("error", err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
