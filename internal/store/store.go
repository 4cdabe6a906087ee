package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/prociv-leini/logbook/internal/domain"
)

// Store is the single owner of all application collections. Reads never
// write; every successful mutation persists the touched collection through
// the DocStore before it becomes visible in memory, so a claimed-successful
// write is never silently dropped.
//
// The original client ran on a single-threaded event loop; the HTTP server
// does not, so the Store serializes access behind one mutex. There is still
// exactly one writer of the durable documents by construction.
type Store struct {
	docs DocStore

	mu         sync.RWMutex
	trips      []domain.Trip
	vehicles   []domain.Vehicle
	volunteers []domain.Volunteer
	settings   domain.Settings
	active     *domain.Trip // cached pointer into no slice — always a copy
}

// New constructs a Store over the given document adapter.
// Call Load before anything else.
func New(docs DocStore) *Store {
	return &Store{docs: docs}
}

// Load reads every collection from the document store. Missing documents
// fall back to seed rosters (vehicles, volunteers), an empty history
// (trips), or defaults (settings). The settings document is merged over the
// defaults so fields added after the document was written are backfilled.
//
// The active trip is derived here by scanning the loaded trips for ACTIVE
// status; if the stored data violates the single-active invariant, the first
// match in stored order wins and the data is left as-is.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadDoc(ctx, s.docs, KeyTrips, &s.trips, nil); err != nil {
		return fmt.Errorf("store.Store.Load: %w", err)
	}
	if err := loadDoc(ctx, s.docs, KeyVehicles, &s.vehicles, domain.SeedVehicles); err != nil {
		return fmt.Errorf("store.Store.Load: %w", err)
	}
	if err := loadDoc(ctx, s.docs, KeyVolunteers, &s.volunteers, domain.SeedVolunteers); err != nil {
		return fmt.Errorf("store.Store.Load: %w", err)
	}

	// Settings merge under defaults: unmarshal over a default-valued record,
	// so present fields win and absent fields keep their defaults.
	s.settings = domain.DefaultSettings()
	doc, err := s.docs.Get(ctx, KeySettings)
	switch {
	case err == nil:
		if err := json.Unmarshal(doc, &s.settings); err != nil {
			return fmt.Errorf("store.Store.Load: settings: %w", err)
		}
	case isNotFound(err):
		// fresh install, defaults stand
	default:
		return fmt.Errorf("store.Store.Load: %w", err)
	}

	s.deriveActive()
	return nil
}

// loadDoc reads one collection document into dst. A missing document yields
// seed() when provided, otherwise the collection stays empty.
func loadDoc[T any](ctx context.Context, docs DocStore, key string, dst *[]T, seed func() []T) error {
	doc, err := docs.Get(ctx, key)
	switch {
	case err == nil:
		return json.Unmarshal(doc, dst)
	case isNotFound(err):
		if seed != nil {
			*dst = seed()
		}
		return nil
	default:
		return err
	}
}

// Trips returns a copy of the trip collection, newest first.
func (s *Store) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Trip(nil), s.trips...)
}

// Vehicles returns a copy of the vehicle roster in insertion order.
func (s *Store) Vehicles() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Vehicle(nil), s.vehicles...)
}

// Volunteers returns a copy of the volunteer roster in insertion order.
func (s *Store) Volunteers() []domain.Volunteer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Volunteer(nil), s.volunteers...)
}

// Settings returns the current settings record.
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// ActiveTrip returns the cached active trip, if any, in O(1).
func (s *Store) ActiveTrip() (domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return domain.Trip{}, false
	}
	return *s.active, true
}

// VehicleByID resolves a vehicle from the roster.
// Returns false for dangling references — callers tolerate those.
func (s *Store) VehicleByID(id string) (domain.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

// UpdateTrips applies a pure transformation to the trip collection, persists
// the result, then replaces the in-memory collection and re-derives the
// active-trip cache. If persistence fails the mutation is discarded whole —
// memory never gets ahead of the durable store.
func (s *Store) UpdateTrips(ctx context.Context, apply func([]domain.Trip) []domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := apply(append([]domain.Trip(nil), s.trips...))
	if err := s.persist(ctx, KeyTrips, next); err != nil {
		return fmt.Errorf("store.Store.UpdateTrips: %w", err)
	}
	s.trips = next
	s.deriveActive()
	return nil
}

// UpdateVehicles applies a pure transformation to the vehicle roster and
// persists the result.
func (s *Store) UpdateVehicles(ctx context.Context, apply func([]domain.Vehicle) []domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := apply(append([]domain.Vehicle(nil), s.vehicles...))
	if err := s.persist(ctx, KeyVehicles, next); err != nil {
		return fmt.Errorf("store.Store.UpdateVehicles: %w", err)
	}
	s.vehicles = next
	return nil
}

// UpdateVolunteers applies a pure transformation to the volunteer roster and
// persists the result.
func (s *Store) UpdateVolunteers(ctx context.Context, apply func([]domain.Volunteer) []domain.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := apply(append([]domain.Volunteer(nil), s.volunteers...))
	if err := s.persist(ctx, KeyVolunteers, next); err != nil {
		return fmt.Errorf("store.Store.UpdateVolunteers: %w", err)
	}
	s.volunteers = next
	return nil
}

// UpdateSettings applies a pure transformation to the settings record and
// persists the result.
func (s *Store) UpdateSettings(ctx context.Context, apply func(domain.Settings) domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := apply(s.settings)
	if err := s.persist(ctx, KeySettings, next); err != nil {
		return fmt.Errorf("store.Store.UpdateSettings: %w", err)
	}
	s.settings = next
	return nil
}

// Reset wipes every durable document and returns the in-memory state to the
// fresh-install baseline: no trips, seed rosters, default settings.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.docs.DeleteAll(ctx); err != nil {
		return fmt.Errorf("store.Store.Reset: %w", err)
	}
	s.trips = nil
	s.vehicles = domain.SeedVehicles()
	s.volunteers = domain.SeedVolunteers()
	s.settings = domain.DefaultSettings()
	s.active = nil
	return nil
}

// persist marshals v and writes it under key. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.docs.Put(ctx, key, doc)
}

// deriveActive rescans the trip collection for the first ACTIVE trip and
// caches a copy. Called under s.mu after load and after every trip mutation,
// which keeps the O(1) cache coherent without any separate bookkeeping.
func (s *Store) deriveActive() {
	s.active = nil
	for i := range s.trips {
		if s.trips[i].Status == domain.TripStatusActive {
			t := s.trips[i]
			s.active = &t
			return
		}
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
