package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/store"
)

// Roster manages the vehicle and volunteer collections.
// All operations go through the Store, so persistence is automatic and
// immediate. Removal is unconditional: historical trips keep referencing
// removed vehicle ids, and those records stay untouched as evidence.
type Roster struct {
	store *store.Store
}

// NewRoster constructs a Roster backed by the provided store.
func NewRoster(st *store.Store) *Roster {
	return &Roster{store: st}
}

// AddVehicle appends a new vehicle to the roster. The plate is normalized
// to upper case. Returns domain.ErrValidation when either field is empty
// after trimming.
func (r *Roster) AddVehicle(ctx context.Context, plate, model string) (domain.Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	model = strings.TrimSpace(model)
	if plate == "" {
		return domain.Vehicle{}, domain.Validationf("plate is required")
	}
	if model == "" {
		return domain.Vehicle{}, domain.Validationf("model is required")
	}

	vehicle := domain.Vehicle{ID: domain.NewRosterID(), Plate: plate, Model: model}
	err := r.store.UpdateVehicles(ctx, func(vehicles []domain.Vehicle) []domain.Vehicle {
		return append(vehicles, vehicle)
	})
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.Roster.AddVehicle: %w", err)
	}
	return vehicle, nil
}

// AddVolunteer appends a new volunteer to the roster. No case normalization.
// Returns domain.ErrValidation when either field is empty after trimming.
func (r *Roster) AddVolunteer(ctx context.Context, name, surname string) (domain.Volunteer, error) {
	name = strings.TrimSpace(name)
	surname = strings.TrimSpace(surname)
	if name == "" {
		return domain.Volunteer{}, domain.Validationf("name is required")
	}
	if surname == "" {
		return domain.Volunteer{}, domain.Validationf("surname is required")
	}

	volunteer := domain.Volunteer{ID: domain.NewRosterID(), Name: name, Surname: surname}
	err := r.store.UpdateVolunteers(ctx, func(volunteers []domain.Volunteer) []domain.Volunteer {
		return append(volunteers, volunteer)
	})
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("service.Roster.AddVolunteer: %w", err)
	}
	return volunteer, nil
}

// RemoveVehicle removes a vehicle by id. Trips that reference the removed
// vehicle are not checked or repaired. Returns domain.ErrNotFound when no
// vehicle with that id exists.
func (r *Roster) RemoveVehicle(ctx context.Context, id string) error {
	removed := false
	err := r.store.UpdateVehicles(ctx, func(vehicles []domain.Vehicle) []domain.Vehicle {
		out := vehicles[:0]
		for _, v := range vehicles {
			if v.ID == id {
				removed = true
				continue
			}
			out = append(out, v)
		}
		return out
	})
	if err != nil {
		return fmt.Errorf("service.Roster.RemoveVehicle: %w", err)
	}
	if !removed {
		return fmt.Errorf("service.Roster.RemoveVehicle: %w", domain.ErrNotFound)
	}
	return nil
}

// RemoveVolunteer removes a volunteer by id.
// Returns domain.ErrNotFound when no volunteer with that id exists.
func (r *Roster) RemoveVolunteer(ctx context.Context, id string) error {
	removed := false
	err := r.store.UpdateVolunteers(ctx, func(volunteers []domain.Volunteer) []domain.Volunteer {
		out := volunteers[:0]
		for _, v := range volunteers {
			if v.ID == id {
				removed = true
				continue
			}
			out = append(out, v)
		}
		return out
	})
	if err != nil {
		return fmt.Errorf("service.Roster.RemoveVolunteer: %w", err)
	}
	if !removed {
		return fmt.Errorf("service.Roster.RemoveVolunteer: %w", domain.ErrNotFound)
	}
	return nil
}
