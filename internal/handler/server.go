// Package handler implements the HTTP surface of the fleet logbook API.
// All handlers are methods on Server. This layer only decodes requests,
// calls services, and encodes responses — every rule lives below it.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/middleware"
	"github.com/prociv-leini/logbook/internal/service"
	"github.com/prociv-leini/logbook/internal/store"
)

// LifecycleService defines the trip workflow operations the handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a stub without touching the store.
type LifecycleService interface {
	Open(ctx context.Context, in service.OpenTripInput) (domain.Trip, error)
	Close(ctx context.Context, in service.CloseTripInput, done chan<- struct{}) (domain.Trip, error)
	Overdue() bool
	Reset()
}

// RosterService defines the roster operations the handlers depend on.
type RosterService interface {
	AddVehicle(ctx context.Context, plate, model string) (domain.Vehicle, error)
	AddVolunteer(ctx context.Context, name, surname string) (domain.Volunteer, error)
	RemoveVehicle(ctx context.Context, id string) error
	RemoveVolunteer(ctx context.Context, id string) error
}

// AnalysisService produces the AI logistics summary.
type AnalysisService interface {
	Summarize(ctx context.Context) (string, error)
}

// CSVUploader pushes a CSV backup to the configured cloud endpoint.
type CSVUploader interface {
	UploadCSV(ctx context.Context, csv []byte, endpointURL string) error
}

// Server implements every API endpoint. Handlers are spread over
// domain-specific files (trip.go, roster.go, ...) but all operate on this
// struct.
type Server struct {
	store     *store.Store
	lifecycle LifecycleService
	roster    RosterService
	export    *service.Export
	analysis  AnalysisService
	uploader  CSVUploader
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	st *store.Store,
	lifecycle LifecycleService,
	roster RosterService,
	export *service.Export,
	analysis AnalysisService,
	uploader CSVUploader,
	log *slog.Logger,
) *Server {
	return &Server{
		store:     st,
		lifecycle: lifecycle,
		roster:    roster,
		export:    export,
		analysis:  analysis,
		uploader:  uploader,
		log:       log,
	}
}

// Routes mounts every endpoint on a fresh chi router. Admin-area routes
// (roster writes, settings, exports, analysis, reset) sit behind the
// shared-secret gate; trip recording is open to every volunteer.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.OpenTrip)
		r.Get("/active", s.GetActiveTrip)
		r.Post("/{id}/close", s.CloseTrip)
	})

	r.Get("/vehicles", s.ListVehicles)
	r.Get("/volunteers", s.ListVolunteers)

	gate := middleware.NewAdminGate(func() string {
		return s.store.Settings().EffectiveAdminPassword()
	})
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Post("/admin/verify", s.VerifyAdmin)
		r.Post("/admin/reset", s.ResetDatabase)
		r.Post("/vehicles", s.AddVehicle)
		r.Delete("/vehicles/{id}", s.RemoveVehicle)
		r.Post("/volunteers", s.AddVolunteer)
		r.Delete("/volunteers/{id}", s.RemoveVolunteer)
		r.Get("/settings", s.GetSettings)
		r.Put("/settings", s.UpdateSettings)
		r.Get("/export", s.DownloadExport)
		r.Post("/export/cloud", s.UploadExport)
		r.Post("/analysis", s.RunAnalysis)
	})

	return r
}

// writeJSON encodes v as the response body with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// readJSON decodes the request body into v.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
