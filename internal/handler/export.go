package handler

import (
	"fmt"
	"net/http"
	"time"
)

// DownloadExport handles GET /export: the local-download sink.
// Streams the full trip history as a CSV attachment.
func (s *Server) DownloadExport(w http.ResponseWriter, r *http.Request) {
	csv, err := s.export.CSV(s.store.Trips(), s.store.Vehicles())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("logbook_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csv); err != nil {
		s.log.Error("write csv response", "error", err)
	}
}

// UploadExport handles POST /export/cloud: the cloud-backup sink.
// Fails loudly — a backup the operator believes succeeded must have
// actually reached the endpoint.
func (s *Server) UploadExport(w http.ResponseWriter, r *http.Request) {
	endpoint := s.store.Settings().GoogleScriptURL
	if endpoint == "" {
		s.badRequest(w, "no cloud endpoint configured")
		return
	}

	csv, err := s.export.CSV(s.store.Trips(), s.store.Vehicles())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.uploader.UploadCSV(r.Context(), csv, endpoint); err != nil {
		s.log.ErrorContext(r.Context(), "cloud backup failed", "error", err)
		s.writeJSON(w, http.StatusBadGateway,
			errorResponse{Error: errorDetail{Code: "upload_failed", Message: "cloud backup failed"}})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
