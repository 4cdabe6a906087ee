package handler

import (
	"net/http"

	"github.com/prociv-leini/logbook/internal/domain"
)

// GetSettings handles GET /settings.
func (s *Server) GetSettings(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Settings())
}

// UpdateSettings handles PUT /settings. The body is the full settings
// record; the store persists it immediately. An empty adminPassword keeps
// the gate on the default constant.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.Settings
	if err := readJSON(r, &req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	err := s.store.UpdateSettings(r.Context(), func(domain.Settings) domain.Settings {
		return req
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, req)
}
