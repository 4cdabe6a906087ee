package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prociv-leini/logbook/internal/service"
)

// openTripRequest is the body of POST /trips.
type openTripRequest struct {
	VehicleID   string `json:"vehicleId"`
	DriverName  string `json:"driverName"`
	Reason      string `json:"reason"`
	Destination string `json:"destination"`
	Icon        string `json:"icon"`
	StartKm     int    `json:"startKm"`
}

// closeTripRequest is the body of POST /trips/{id}/close.
type closeTripRequest struct {
	EndKm int    `json:"endKm"`
	Notes string `json:"notes"`
}

// activeTripResponse wraps the active trip with its overdue flag.
// Trip is null when no trip is underway.
type activeTripResponse struct {
	Trip    any  `json:"trip"`
	Overdue bool `json:"overdue"`
}

// ListTrips handles GET /trips. Newest first.
func (s *Server) ListTrips(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Trips())
}

// GetActiveTrip handles GET /trips/active.
func (s *Server) GetActiveTrip(w http.ResponseWriter, _ *http.Request) {
	resp := activeTripResponse{}
	if active, ok := s.store.ActiveTrip(); ok {
		resp.Trip = active
		resp.Overdue = s.lifecycle.Overdue()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// OpenTrip handles POST /trips: the "new departure" form.
// Returns 409 when a trip is already underway.
func (s *Server) OpenTrip(w http.ResponseWriter, r *http.Request) {
	var req openTripRequest
	if err := readJSON(r, &req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	trip, err := s.lifecycle.Open(r.Context(), service.OpenTripInput{
		VehicleID:   req.VehicleID,
		DriverName:  req.DriverName,
		Reason:      req.Reason,
		Destination: req.Destination,
		Icon:        req.Icon,
		StartKm:     req.StartKm,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, trip)
}

// CloseTrip handles POST /trips/{id}/close: the "register return" form.
// The response carries the completed trip, possibly with AI-rewritten
// notes; the spreadsheet sync continues in the background.
func (s *Server) CloseTrip(w http.ResponseWriter, r *http.Request) {
	var req closeTripRequest
	if err := readJSON(r, &req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	trip, err := s.lifecycle.Close(r.Context(), service.CloseTripInput{
		ID:    chi.URLParam(r, "id"),
		EndKm: req.EndKm,
		Notes: req.Notes,
	}, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, trip)
}
