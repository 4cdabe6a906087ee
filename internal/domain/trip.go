// Package domain contains the core data types for the fleet logbook.
// This package has zero external dependencies beyond the uuid generator and
// is imported by every other internal package (store, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
// A trip is created ACTIVE and transitions exactly once to COMPLETED.
type TripStatus string

const (
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Trip is one dispatch-and-return record for a vehicle.
// At most one trip in the collection is ACTIVE at any time; completed trips
// are never deleted outside a full database reset, because the history is
// the organization's field-reporting evidence.
//
// VehicleID is a weak reference: the vehicle may be removed from the roster
// later, and the trip record stays untouched.
type Trip struct {
	ID          string     `json:"id"`
	Status      TripStatus `json:"status"`
	VehicleID   string     `json:"vehicleId"`
	DriverName  string     `json:"driverName"`
	Reason      string     `json:"reason"`
	Destination string     `json:"destination"`
	Icon        string     `json:"icon,omitempty"`
	StartKm     int        `json:"startKm"`
	EndKm       *int       `json:"endKm,omitempty"` // nil until completion
	Notes       string     `json:"notes,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"` // nil until completion
}

// NewTripID returns a fresh unique trip id.
// The legacy client derived ids from the wall clock, which collides when two
// records are created within the same millisecond; uuids do not.
func NewTripID() string {
	return uuid.NewString()
}

// DistanceKm returns the kilometres covered by a completed trip,
// or 0 when the trip has no end reading yet.
func (t Trip) DistanceKm() int {
	if t.EndKm == nil {
		return 0
	}
	return *t.EndKm - t.StartKm
}

// Overdue reports whether an ACTIVE trip has been out longer than the
// configured maximum duration. Completed trips are never overdue.
func (t Trip) Overdue(maxDuration time.Duration, now time.Time) bool {
	if t.Status != TripStatusActive || maxDuration <= 0 {
		return false
	}
	return now.Sub(t.StartedAt) > maxDuration
}
