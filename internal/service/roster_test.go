package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/service"
	"github.com/prociv-leini/logbook/internal/store"
)

// newRoster wires a Roster over a fresh in-memory store.
func newRoster(t *testing.T) (*service.Roster, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemDocStore())
	require.NoError(t, st.Load(context.Background()))
	return service.NewRoster(st), st
}

// ---- AddVehicle ------------------------------------------------------------

func TestRoster_AddVehicle(t *testing.T) {
	roster, st := newRoster(t)

	got, err := roster.AddVehicle(context.Background(), "ab123cd", "  Fiat Ducato ")

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "AB123CD", got.Plate, "plate must be normalized to upper case")
	assert.Equal(t, "Fiat Ducato", got.Model)

	// Appended after the seeds, insertion order.
	vehicles := st.Vehicles()
	assert.Equal(t, got, vehicles[len(vehicles)-1])
}

func TestRoster_AddVehicle_EmptyFields(t *testing.T) {
	roster, st := newRoster(t)
	before := len(st.Vehicles())

	_, err := roster.AddVehicle(context.Background(), "   ", "Fiat Ducato")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = roster.AddVehicle(context.Background(), "AB123CD", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Len(t, st.Vehicles(), before, "rejected adds must not mutate the roster")
}

// ---- AddVolunteer ----------------------------------------------------------

func TestRoster_AddVolunteer(t *testing.T) {
	roster, st := newRoster(t)

	got, err := roster.AddVolunteer(context.Background(), " Anna ", "Verdi")

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Anna", got.Name, "names are trimmed but not case-normalized")
	assert.Equal(t, "Verdi", got.Surname)

	volunteers := st.Volunteers()
	assert.Equal(t, got, volunteers[len(volunteers)-1])
}

func TestRoster_AddVolunteer_EmptyFields(t *testing.T) {
	roster, _ := newRoster(t)

	_, err := roster.AddVolunteer(context.Background(), "", "Verdi")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = roster.AddVolunteer(context.Background(), "Anna", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Remove ----------------------------------------------------------------

func TestRoster_RemoveVehicle(t *testing.T) {
	roster, st := newRoster(t)

	require.NoError(t, roster.RemoveVehicle(context.Background(), "m1"))

	for _, v := range st.Vehicles() {
		assert.NotEqual(t, "m1", v.ID)
	}
}

func TestRoster_RemoveVehicle_NotFound(t *testing.T) {
	roster, _ := newRoster(t)

	err := roster.RemoveVehicle(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoster_RemoveVolunteer(t *testing.T) {
	roster, st := newRoster(t)

	require.NoError(t, roster.RemoveVolunteer(context.Background(), "v1"))

	for _, v := range st.Volunteers() {
		assert.NotEqual(t, "v1", v.ID)
	}
}

func TestRoster_RemoveVehicle_LeavesReferencingTripsUntouched(t *testing.T) {
	// Historical trip records are immutable evidence: removing the vehicle
	// they reference must not touch them, and the dangling id is tolerated.
	roster, st := newRoster(t)
	ctx := context.Background()

	lc := service.NewLifecycle(st, nil, &mockSyncer{}, discardLogger())
	trip, err := lc.Open(ctx, openInput()) // references seed vehicle m1
	require.NoError(t, err)
	closed, err := lc.Close(ctx, service.CloseTripInput{ID: trip.ID, EndKm: 1050, Notes: "ok"}, nil)
	require.NoError(t, err)

	require.NoError(t, roster.RemoveVehicle(ctx, "m1"))

	require.Len(t, st.Trips(), 1)
	assert.Equal(t, closed, st.Trips()[0], "trip record must be byte-for-byte unchanged")
	assert.Equal(t, "m1", st.Trips()[0].VehicleID)

	_, ok := st.VehicleByID("m1")
	assert.False(t, ok)
}
