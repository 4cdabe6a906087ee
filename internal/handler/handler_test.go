package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prociv-leini/logbook/internal/domain"
	"github.com/prociv-leini/logbook/internal/handler"
	"github.com/prociv-leini/logbook/internal/middleware"
	"github.com/prociv-leini/logbook/internal/service"
	"github.com/prociv-leini/logbook/internal/store"
)

// mockUploader is a test double for handler.CSVUploader.
type mockUploader struct {
	upload func(ctx context.Context, csv []byte, url string) error
}

func (m *mockUploader) UploadCSV(ctx context.Context, csv []byte, url string) error {
	return m.upload(ctx, csv, url)
}

// mockAnalysis is a test double for handler.AnalysisService.
type mockAnalysis struct {
	summarize func(ctx context.Context) (string, error)
}

func (m *mockAnalysis) Summarize(ctx context.Context) (string, error) {
	return m.summarize(ctx)
}

// testEnv is a fully wired server over an in-memory document store:
// real store, real lifecycle/roster/export services, stubbed collaborators.
type testEnv struct {
	handler  http.Handler
	store    *store.Store
	analysis *mockAnalysis
	uploader *mockUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st := store.New(store.NewMemDocStore())
	require.NoError(t, st.Load(context.Background()))

	env := &testEnv{
		store:    st,
		analysis: &mockAnalysis{summarize: func(context.Context) (string, error) { return "", service.ErrAnalysisUnavailable }},
		uploader: &mockUploader{upload: func(context.Context, []byte, string) error { return nil }},
	}

	lifecycle := service.NewLifecycle(st, nil, noopSyncer{}, log)
	srv := handler.NewServer(st, lifecycle, service.NewRoster(st), service.NewExport(), env.analysis, env.uploader, log)
	env.handler = srv.Routes()
	return env
}

type noopSyncer struct{}

func (noopSyncer) SyncTrip(context.Context, domain.Trip, *domain.Vehicle, string) error { return nil }

// do performs one request against the wired router.
func (e *testEnv) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if admin {
		req.Header.Set(middleware.AdminPasswordHeader, domain.DefaultAdminPassword)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// ---- health ----------------------------------------------------------------

func TestGetHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// ---- trips -----------------------------------------------------------------

func openBody() map[string]any {
	return map[string]any{
		"vehicleId":   "m1",
		"driverName":  "Rossi",
		"reason":      "patrol",
		"destination": "Hill Rd",
		"startKm":     1000,
	}
}

func TestOpenTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/trips", openBody(), false)

	require.Equal(t, http.StatusCreated, rec.Code)
	var trip domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trip))
	assert.Equal(t, domain.TripStatusActive, trip.Status)
	assert.NotEmpty(t, trip.ID)
}

func TestOpenTrip_SecondReturns409(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/trips", openBody(), false).Code)

	rec := env.do(t, http.MethodPost, "/trips", openBody(), false)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "precondition_violation")
	assert.Contains(t, rec.Body.String(), "a trip is already in progress",
		"the body carries the human message, not the wrap chain")
}

func TestOpenTrip_Validation422(t *testing.T) {
	env := newTestEnv(t)

	body := openBody()
	body["driverName"] = "  "
	rec := env.do(t, http.MethodPost, "/trips", body, false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "driver name is required")
}

func TestCloseTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/trips", openBody(), false)
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&opened))

	rec = env.do(t, http.MethodPost, "/trips/"+opened.ID+"/close",
		map[string]any{"endKm": 1050, "notes": "ok"}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var closed domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&closed))
	assert.Equal(t, domain.TripStatusCompleted, closed.Status)
	require.NotNil(t, closed.EndKm)
	assert.Equal(t, 1050, *closed.EndKm)

	_, ok := env.store.ActiveTrip()
	assert.False(t, ok)
}

func TestCloseTrip_WrongID409(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/trips", openBody(), false).Code)

	rec := env.do(t, http.MethodPost, "/trips/wrong-id/close", map[string]any{"endKm": 1050}, false)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetActiveTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/trips/active", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Trip    *domain.Trip `json:"trip"`
		Overdue bool         `json:"overdue"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.Trip)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/trips", openBody(), false).Code)

	rec = env.do(t, http.MethodGet, "/trips/active", nil, false)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Trip)
	assert.Equal(t, domain.TripStatusActive, resp.Trip.Status)
	assert.False(t, resp.Overdue)
}

// ---- admin gate ------------------------------------------------------------

func TestAdminGate_WrongPassword401(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set(middleware.AdminPasswordHeader, "wrong")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGate_MissingPassword401(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/vehicles",
		map[string]string{"plate": "AB123CD", "model": "Panda"}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/verify", nil, true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// ---- roster ----------------------------------------------------------------

func TestAddVehicle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/vehicles",
		map[string]string{"plate": "ab123cd", "model": "Panda"}, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var v domain.Vehicle
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, "AB123CD", v.Plate)
}

func TestAddVehicle_Empty422(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/vehicles",
		map[string]string{"plate": "", "model": "Panda"}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRemoveVehicle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/vehicles/m1", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/vehicles/m1", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- settings --------------------------------------------------------------

func TestUpdateSettings_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	want := domain.DefaultSettings()
	want.GoogleScriptURL = "https://script.example/exec"
	want.MaxTripDurationHours = 6

	rec := env.do(t, http.MethodPut, "/settings", want, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/settings", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Settings
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, want, got)
}

// ---- export ----------------------------------------------------------------

func TestDownloadExport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/export", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "date,plate,driver")
}

func TestUploadExport_NoEndpoint400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/export/cloud", nil, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadExport(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.UpdateSettings(context.Background(), func(s domain.Settings) domain.Settings {
		s.GoogleScriptURL = "https://script.example/exec"
		return s
	}))

	var gotURL string
	env.uploader.upload = func(_ context.Context, csv []byte, url string) error {
		gotURL = url
		assert.Contains(t, string(csv), "date,plate,driver")
		return nil
	}

	rec := env.do(t, http.MethodPost, "/export/cloud", nil, true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://script.example/exec", gotURL)
}

func TestUploadExport_Failure502(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.UpdateSettings(context.Background(), func(s domain.Settings) domain.Settings {
		s.GoogleScriptURL = "https://script.example/exec"
		return s
	}))
	env.uploader.upload = func(context.Context, []byte, string) error {
		return assert.AnError
	}

	rec := env.do(t, http.MethodPost, "/export/cloud", nil, true)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ---- analysis --------------------------------------------------------------

func TestRunAnalysis(t *testing.T) {
	env := newTestEnv(t)
	env.analysis.summarize = func(context.Context) (string, error) { return "fleet summary", nil }

	rec := env.do(t, http.MethodPost, "/analysis", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fleet summary")
}

func TestRunAnalysis_Unconfigured503(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/analysis", nil, true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// ---- reset -----------------------------------------------------------------

func TestResetDatabase(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/trips", openBody(), false).Code)

	rec := env.do(t, http.MethodPost, "/admin/reset", nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, env.store.Trips())

	// A fresh trip can be opened after the reset.
	rec = env.do(t, http.MethodPost, "/trips", openBody(), false)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
