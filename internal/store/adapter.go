// Package store owns the canonical application state: the trip, vehicle and
// volunteer collections plus the settings singleton. State is held in memory
// and persisted as keyed JSON documents through a DocStore adapter — one
// document per collection, written synchronously after every mutation.
package store

import "context"

// Document keys. One JSON document per collection, mirroring the four
// storage keys of the original client.
const (
	KeyTrips      = "trips"
	KeyVehicles   = "vehicles"
	KeyVolunteers = "volunteers"
	KeySettings   = "settings"
)

// DocStore is the durable keyed JSON document store behind the Store.
// The Store is its only writer; nothing else touches the documents.
type DocStore interface {
	// Get returns the document stored under key.
	// Returns domain.ErrNotFound when the key has never been written —
	// callers use that to fall back to seeds/defaults.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores doc under key, replacing any previous document.
	Put(ctx context.Context, key string, doc []byte) error

	// DeleteAll removes every document. Used only by the full reset.
	DeleteAll(ctx context.Context) error
}
