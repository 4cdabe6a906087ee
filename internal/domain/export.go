package domain

// ExportRow is a single row in the flat trip export.
// It is a denormalized view: one row per trip, with the vehicle plate
// resolved by joining against the vehicle roster. A trip whose vehicle has
// since been removed from the roster yields an empty Plate, not an error.
type ExportRow struct {
	Date        string // "2006-01-02" formatted start date
	Plate       string // empty when the vehicle id no longer resolves
	DriverName  string
	Reason      string
	Destination string
	StartKm     int
	EndKm       string // empty string while the trip is still active
	DistanceKm  string // empty string while the trip is still active
	Notes       string
	Status      TripStatus
}
