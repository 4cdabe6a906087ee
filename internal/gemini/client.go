// Package gemini implements the AI collaborator endpoints: note optimization
// at trip completion and the maintenance-trend summary over the trip
// history. The controller treats both as opaque async calls; all Gemini
// specifics stay in this package.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prociv-leini/logbook/internal/domain"
)

const (
	// DefaultHost is the Gemini REST API host. Overridable for tests.
	DefaultHost = "https://generativelanguage.googleapis.com"

	model = "gemini-2.0-flash"
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient constructs a Gemini client. host falls back to DefaultHost when
// empty. The HTTP timeout doubles as the only deadline on AI calls — callers
// do not impose their own.
func NewClient(host, apiKey string, log *slog.Logger) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		host:   host,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// generateRequest is the minimal generateContent request body.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// OptimizeNotes rewrites raw trip notes into a concise operational log line.
// Returns an error on any transport or API failure; the caller decides
// whether that aborts the surrounding operation.
func (c *Client) OptimizeNotes(ctx context.Context, raw string) (string, error) {
	prompt := "Rewrite the following vehicle trip notes as a single concise, " +
		"professional logbook entry. Keep all factual details, drop filler. " +
		"Answer with the rewritten entry only.\n\n" + raw

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini.Client.OptimizeNotes: %w", err)
	}
	return text, nil
}

// AnalyzeTrends summarizes maintenance and usage trends over the trip history.
func (c *Client) AnalyzeTrends(ctx context.Context, trips []domain.Trip) (string, error) {
	history, err := json.Marshal(trips)
	if err != nil {
		return "", fmt.Errorf("gemini.Client.AnalyzeTrends: %w", err)
	}

	prompt := "You are the logistics assistant of a small volunteer vehicle " +
		"fleet. Given the trip history below as JSON, summarize usage and " +
		"maintenance trends (mileage per vehicle, recurring issues mentioned " +
		"in notes, vehicles due for a check) in a short paragraph.\n\n" +
		string(history)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini.Client.AnalyzeTrends: %w", err)
	}
	return text, nil
}

// generate performs one generateContent call and returns the first
// candidate's text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.host, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	c.log.Debug("gemini call completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
