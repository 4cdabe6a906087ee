package domain

import "github.com/google/uuid"

// Vehicle is one fleet vehicle in the roster.
// Plate is stored upper-cased; normalization happens in the roster service.
type Vehicle struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
	Model string `json:"model"`
}

// Volunteer is one registered driver in the roster.
type Volunteer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// NewRosterID returns a fresh unique id for a vehicle or volunteer.
func NewRosterID() string {
	return uuid.NewString()
}

// SeedVehicles is the roster a brand-new installation starts with.
// Applied only when no vehicles document has ever been persisted.
func SeedVehicles() []Vehicle {
	return []Vehicle{
		{ID: "m1", Plate: "PC045LE", Model: "Fiat Ducato"},
		{ID: "m2", Plate: "PC112LE", Model: "Land Rover Defender"},
		{ID: "m3", Plate: "PC203LE", Model: "Fiat Panda 4x4"},
	}
}

// SeedVolunteers is the driver roster a brand-new installation starts with.
func SeedVolunteers() []Volunteer {
	return []Volunteer{
		{ID: "v1", Name: "Mario", Surname: "Rossi"},
		{ID: "v2", Name: "Lucia", Surname: "Bianchi"},
	}
}
