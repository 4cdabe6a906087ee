package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// addVehicleRequest is the body of POST /vehicles.
type addVehicleRequest struct {
	Plate string `json:"plate"`
	Model string `json:"model"`
}

// addVolunteerRequest is the body of POST /volunteers.
type addVolunteerRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// ListVehicles handles GET /vehicles. Insertion order.
func (s *Server) ListVehicles(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Vehicles())
}

// ListVolunteers handles GET /volunteers. Insertion order.
func (s *Server) ListVolunteers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Volunteers())
}

// AddVehicle handles POST /vehicles.
func (s *Server) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req addVehicleRequest
	if err := readJSON(r, &req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	vehicle, err := s.roster.AddVehicle(r.Context(), req.Plate, req.Model)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, vehicle)
}

// RemoveVehicle handles DELETE /vehicles/{id}.
// Historical trips referencing the removed vehicle are left untouched.
func (s *Server) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.RemoveVehicle(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVolunteer handles POST /volunteers.
func (s *Server) AddVolunteer(w http.ResponseWriter, r *http.Request) {
	var req addVolunteerRequest
	if err := readJSON(r, &req); err != nil {
		s.badRequest(w, "invalid request body")
		return
	}

	volunteer, err := s.roster.AddVolunteer(r.Context(), req.Name, req.Surname)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, volunteer)
}

// RemoveVolunteer handles DELETE /volunteers/{id}.
func (s *Server) RemoveVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.RemoveVolunteer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
