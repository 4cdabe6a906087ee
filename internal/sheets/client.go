// Package sheets forwards trip data to the organization's Google Apps Script
// endpoint: single-trip sync on completion and whole-history CSV backups.
// The endpoint URL is operator-configured and may change at runtime, so it
// is a call parameter rather than client state.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prociv-leini/logbook/internal/domain"
)

// Client posts trip data to a Google Apps Script web app.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient constructs a sheets client. Apps Script cold starts are slow,
// hence the generous timeout.
func NewClient(log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// tripPayload is the row the Apps Script appends to the spreadsheet.
type tripPayload struct {
	Action      string `json:"action"`
	TripID      string `json:"tripId"`
	Date        string `json:"date"`
	Plate       string `json:"plate"`
	DriverName  string `json:"driverName"`
	Reason      string `json:"reason"`
	Destination string `json:"destination"`
	StartKm     int    `json:"startKm"`
	EndKm       int    `json:"endKm"`
	Notes       string `json:"notes"`
}

// csvPayload is the whole-history backup upload.
type csvPayload struct {
	Action   string `json:"action"`
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

// SyncTrip forwards one completed trip. vehicle may be nil when the roster
// no longer contains the trip's vehicle; the plate field is then empty.
func (c *Client) SyncTrip(ctx context.Context, trip domain.Trip, vehicle *domain.Vehicle, endpointURL string) error {
	payload := tripPayload{
		Action:      "addTrip",
		TripID:      trip.ID,
		Date:        trip.StartedAt.Format("2006-01-02"),
		DriverName:  trip.DriverName,
		Reason:      trip.Reason,
		Destination: trip.Destination,
		StartKm:     trip.StartKm,
		Notes:       trip.Notes,
	}
	if vehicle != nil {
		payload.Plate = vehicle.Plate
	}
	if trip.EndKm != nil {
		payload.EndKm = *trip.EndKm
	}

	if err := c.post(ctx, endpointURL, payload); err != nil {
		return fmt.Errorf("sheets.Client.SyncTrip: %w", err)
	}
	return nil
}

// UploadCSV sends the full CSV export as a cloud backup.
func (c *Client) UploadCSV(ctx context.Context, csv []byte, endpointURL string) error {
	payload := csvPayload{
		Action:   "uploadCSV",
		Filename: fmt.Sprintf("logbook_%s.csv", time.Now().Format("2006-01-02")),
		CSV:      string(csv),
	}
	if err := c.post(ctx, endpointURL, payload); err != nil {
		return fmt.Errorf("sheets.Client.UploadCSV: %w", err)
	}
	return nil
}

// post sends one JSON payload and treats any non-2xx status as an error.
func (c *Client) post(ctx context.Context, endpointURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("apps script: unexpected status %d", resp.StatusCode)
	}
	return nil
}
