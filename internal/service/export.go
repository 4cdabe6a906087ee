package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/prociv-leini/logbook/internal/domain"
)

// csvHeader defines the column names written as the first row of any export.
var csvHeader = []string{
	"date", "plate", "driver", "reason", "destination",
	"start_km", "end_km", "distance_km", "notes", "status",
}

// Export builds the flat tabular representation of the trip history.
// It performs no I/O and knows nothing about sinks: the same bytes are
// handed to the local-download handler or to the cloud uploader.
type Export struct{}

// NewExport constructs the export pipeline.
func NewExport() *Export {
	return &Export{}
}

// Rows produces one ExportRow per trip, in collection order, with the
// vehicle plate resolved by join against the roster. A vehicle id that no
// longer resolves yields an empty plate field, not an error.
func (e *Export) Rows(trips []domain.Trip, vehicles []domain.Vehicle) []domain.ExportRow {
	plates := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		plates[v.ID] = v.Plate
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		row := domain.ExportRow{
			Date:        t.StartedAt.Format("2006-01-02"),
			Plate:       plates[t.VehicleID],
			DriverName:  t.DriverName,
			Reason:      t.Reason,
			Destination: t.Destination,
			StartKm:     t.StartKm,
			Notes:       t.Notes,
			Status:      t.Status,
		}
		if t.EndKm != nil {
			row.EndKm = strconv.Itoa(*t.EndKm)
			row.DistanceKm = strconv.Itoa(t.DistanceKm())
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV renders the trip history as delimiter-escaped CSV bytes.
// The output is deterministic: identical input collections (including
// order) always produce byte-identical output.
func (e *Export) CSV(trips []domain.Trip, vehicles []domain.Vehicle) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("service.Export.CSV: %w", err)
	}
	for _, row := range e.Rows(trips, vehicles) {
		record := []string{
			row.Date,
			row.Plate,
			row.DriverName,
			row.Reason,
			row.Destination,
			strconv.Itoa(row.StartKm),
			row.EndKm,
			row.DistanceKm,
			row.Notes,
			string(row.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("service.Export.CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("service.Export.CSV: %w", err)
	}
	return buf.Bytes(), nil
}
