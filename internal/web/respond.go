package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"incident-analysis/internal/database"
	"incident-analysis/internal/ingest"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// writeJSON encodes v as the response body. The status line is already sent
// when encoding fails, so the failure is only logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to encode response")
	}
}

func (s *Server) writeData(w http.ResponseWriter, v any) {
	s.writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: v})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// writeStoreError maps domain errors onto HTTP statuses
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ingest.ErrSheetNotFound):
		s.writeError(w, http.StatusNotFound, "Sheet not found in file")
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("Request failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}
