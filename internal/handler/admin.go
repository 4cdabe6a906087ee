package handler

import "net/http"

// analysisResponse is the body of POST /analysis.
type analysisResponse struct {
	Summary string `json:"summary"`
}

// VerifyAdmin handles POST /admin/verify. The admin gate middleware has
// already checked the shared secret by the time this runs, so it only has
// to confirm. Clients use it to validate the password once before showing
// the admin area.
func (s *Server) VerifyAdmin(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// ResetDatabase handles POST /admin/reset: the full local wipe.
// Every document is deleted and the rosters return to their seeds.
func (s *Server) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.lifecycle.Reset()
	s.log.WarnContext(r.Context(), "database reset by operator")
	w.WriteHeader(http.StatusNoContent)
}

// RunAnalysis handles POST /analysis: the AI logistics summary over the
// full trip history. Returns 503 when no AI key is configured.
func (s *Server) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analysis.Summarize(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysisResponse{Summary: summary})
}
