// Package service contains the business logic for the fleet logbook.
// Services validate inputs, enforce lifecycle invariants, and orchestrate
// store mutations and collaborator calls. No SQL and no HTTP lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/store"
)

// Lifecycle states and events. The controller is a two-state machine:
// a trip can only be opened when none is underway, and an opened trip can
// only be closed — there is no cancel transition, because every departure
// must be accounted for in the logbook.
const (
	StateIdle     = "no_active_trip"
	StateUnderway = "trip_active"

	eventOpen  = "open"
	eventClose = "close"
)

// noteOptimizeThreshold is the minimum notes length (exclusive) that
// triggers the note-optimization collaborator on close.
const noteOptimizeThreshold = 5

// NoteOptimizer rewrites free-text trip notes at completion.
// A failure here aborts the whole close operation.
type NoteOptimizer interface {
	OptimizeNotes(ctx context.Context, raw string) (string, error)
}

// TripSyncer forwards a completed trip to the external spreadsheet endpoint.
// Best-effort: failures are reported, never rolled back.
type TripSyncer interface {
	SyncTrip(ctx context.Context, trip domain.Trip, vehicle *domain.Vehicle, endpointURL string) error
}

// OpenTripInput is the operator-supplied draft for a new trip.
type OpenTripInput struct {
	VehicleID   string
	DriverName  string
	Reason      string
	Destination string
	Icon        string
	StartKm     int
}

// CloseTripInput is the operator-supplied draft completing the active trip.
type CloseTripInput struct {
	ID    string
	EndKm int
	Notes string
}

// Lifecycle orchestrates the open → close trip workflow on top of the Store.
//
// mu serializes Open, Close, and Reset. The single-active-trip invariant
// needs the state check, the trip mutation, and the machine transition to
// act as one step; the store mutex alone covers only the mutation, so two
// concurrent opens could both pass the guard before either transitions.
type Lifecycle struct {
	store     *store.Store
	optimizer NoteOptimizer // nil disables note optimization
	syncer    TripSyncer
	log       *slog.Logger
	mu        sync.Mutex
	machine   *fsm.FSM
	now       func() time.Time
}

// NewLifecycle constructs the controller. The machine starts in whichever
// state matches the loaded store, so a restart mid-trip resumes correctly.
// optimizer may be nil (no AI key configured); syncer must not be nil.
func NewLifecycle(st *store.Store, optimizer NoteOptimizer, syncer TripSyncer, log *slog.Logger) *Lifecycle {
	initial := StateIdle
	if _, ok := st.ActiveTrip(); ok {
		initial = StateUnderway
	}
	return &Lifecycle{
		store:     st,
		optimizer: optimizer,
		syncer:    syncer,
		log:       log,
		now:       time.Now,
		machine: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: eventOpen, Src: []string{StateIdle}, Dst: StateUnderway},
				{Name: eventClose, Src: []string{StateUnderway}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// State returns the current lifecycle state (StateIdle or StateUnderway).
func (l *Lifecycle) State() string {
	return l.machine.Current()
}

// Open validates the draft, assigns a fresh id, and prepends the new ACTIVE
// trip to the collection (newest-first is a collection invariant).
//
// Returns domain.ErrTripInProgress when a trip is already underway. The
// original client enforced this only in the UI; here it is a hard guard.
func (l *Lifecycle) Open(ctx context.Context, in OpenTripInput) (domain.Trip, error) {
	if err := validateOpen(in); err != nil {
		return domain.Trip{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.machine.Can(eventOpen) {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Open: %w", domain.ErrTripInProgress)
	}

	trip := domain.Trip{
		ID:          domain.NewTripID(),
		Status:      domain.TripStatusActive,
		VehicleID:   in.VehicleID,
		DriverName:  strings.TrimSpace(in.DriverName),
		Reason:      strings.TrimSpace(in.Reason),
		Destination: strings.TrimSpace(in.Destination),
		Icon:        in.Icon,
		StartKm:     in.StartKm,
		StartedAt:   l.now(),
	}

	err := l.store.UpdateTrips(ctx, func(trips []domain.Trip) []domain.Trip {
		return append([]domain.Trip{trip}, trips...)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Open: %w", err)
	}

	if err := l.machine.Event(ctx, eventOpen); err != nil {
		// Unreachable after the Can check above; surfaced for completeness.
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Open: %w", err)
	}

	l.log.InfoContext(ctx, "trip opened",
		"trip_id", trip.ID,
		"vehicle_id", trip.VehicleID,
		"driver", trip.DriverName,
	)
	return trip, nil
}

// Close completes the active trip, in order:
//
//  1. When the submitted notes are longer than 5 characters, the
//     note-optimization collaborator rewrites them. Its failure aborts the
//     whole close without mutating anything — the trip stays ACTIVE so the
//     operator can retry.
//  2. The trip is replaced in place in the collection (no reordering),
//     the active-trip cache is cleared, and the new state is persisted.
//  3. When a sync endpoint is configured, the completed trip is forwarded in
//     a background goroutine; its failure is logged, never rolled back, and
//     never blocks the close from returning.
//
// done, when non-nil, is closed once the sync attempt (or the decision to
// skip it) has finished. Tests use it; production callers pass nil.
func (l *Lifecycle) Close(ctx context.Context, in CloseTripInput, done chan<- struct{}) (domain.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	active, ok := l.store.ActiveTrip()
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Close: %w", domain.ErrNoActiveTrip)
	}
	if in.ID != active.ID {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Close: %w", domain.ErrTripMismatch)
	}
	if in.EndKm < active.StartKm {
		return domain.Trip{}, domain.Validationf("end km %d is below start km %d", in.EndKm, active.StartKm)
	}

	notes := in.Notes
	if len(notes) > noteOptimizeThreshold && l.optimizer != nil {
		optimized, err := l.optimizer.OptimizeNotes(ctx, notes)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.Lifecycle.Close: optimize notes: %w", err)
		}
		notes = optimized
	}

	final := active
	final.Status = domain.TripStatusCompleted
	final.EndKm = &in.EndKm
	final.Notes = notes
	endedAt := l.now()
	final.EndedAt = &endedAt

	err := l.store.UpdateTrips(ctx, func(trips []domain.Trip) []domain.Trip {
		for i := range trips {
			if trips[i].ID == final.ID {
				trips[i] = final
			}
		}
		return trips
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Close: %w", err)
	}

	if err := l.machine.Event(ctx, eventClose); err != nil {
		return domain.Trip{}, fmt.Errorf("service.Lifecycle.Close: %w", err)
	}

	l.log.InfoContext(ctx, "trip closed",
		"trip_id", final.ID,
		"distance_km", final.DistanceKm(),
	)

	l.spawnSync(final, done)
	return final, nil
}

// spawnSync forwards the completed trip to the configured sync endpoint in
// the background. The local state transition has already committed, so the
// goroutine runs on a fresh context — the collaborator does not support
// cancellation and the caller's request context may be gone by the time it
// finishes.
func (l *Lifecycle) spawnSync(trip domain.Trip, done chan<- struct{}) {
	endpoint := l.store.Settings().GoogleScriptURL
	if endpoint == "" {
		if done != nil {
			close(done)
		}
		return
	}

	var vehicle *domain.Vehicle
	if v, ok := l.store.VehicleByID(trip.VehicleID); ok {
		vehicle = &v
	}

	go func() {
		defer func() {
			if done != nil {
				close(done)
			}
		}()
		ctx := context.Background()
		if err := l.syncer.SyncTrip(ctx, trip, vehicle, endpoint); err != nil {
			l.log.Error("trip sync failed",
				"trip_id", trip.ID,
				"endpoint", endpoint,
				"error", err,
			)
			return
		}
		l.log.Info("trip synced", "trip_id", trip.ID)
	}()
}

// Reset forces the controller back to the idle state. Called only after a
// full database reset has discarded any active trip.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machine.SetState(StateIdle)
}

// Overdue reports whether the active trip, if any, has been out longer than
// the configured maximum duration.
func (l *Lifecycle) Overdue() bool {
	active, ok := l.store.ActiveTrip()
	if !ok {
		return false
	}
	return active.Overdue(l.store.Settings().MaxTripDuration(), l.now())
}

// validateOpen enforces the rules for starting a trip.
func validateOpen(in OpenTripInput) error {
	if strings.TrimSpace(in.VehicleID) == "" {
		return domain.Validationf("vehicle is required")
	}
	if strings.TrimSpace(in.DriverName) == "" {
		return domain.Validationf("driver name is required")
	}
	if in.StartKm < 0 {
		return domain.Validationf("start km must not be negative")
	}
	return nil
}
