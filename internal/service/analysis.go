package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/store"
)

// ErrAnalysisUnavailable is returned when no trend analyzer is configured
// (no AI API key). Handlers map this to HTTP 503.
var ErrAnalysisUnavailable = errors.New("trend analysis is not configured")

// TrendAnalyzer summarizes maintenance and usage trends over the full trip
// history. Implemented by the Gemini client.
type TrendAnalyzer interface {
	AnalyzeTrends(ctx context.Context, trips []domain.Trip) (string, error)
}

// Analysis produces the AI logistics summary the admin dashboard shows.
type Analysis struct {
	store    *store.Store
	analyzer TrendAnalyzer // nil when no AI key is configured
}

// NewAnalysis constructs the analysis service. analyzer may be nil.
func NewAnalysis(st *store.Store, analyzer TrendAnalyzer) *Analysis {
	return &Analysis{store: st, analyzer: analyzer}
}

// Summarize runs the trend analysis over all recorded trips.
func (a *Analysis) Summarize(ctx context.Context) (string, error) {
	if a.analyzer == nil {
		return "", fmt.Errorf("service.Analysis.Summarize: %w", ErrAnalysisUnavailable)
	}
	summary, err := a.analyzer.AnalyzeTrends(ctx, a.store.Trips())
	if err != nil {
		return "", fmt.Errorf("service.Analysis.Summarize: %w", err)
	}
	return summary, nil
}
