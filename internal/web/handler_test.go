package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuswatch/internal/config"
	"focuswatch/internal/models"
	"focuswatch/pkg/focus"
)

type fakeStore struct {
	events []*models.FocusEvent
	err    error
	limit  int
}

func (s *fakeStore) GetEventsBetween(start, end time.Time) ([]*models.FocusEvent, error) {
	var out []*models.FocusEvent
	for _, e := range s.events {
		if !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			out = append(out, e)
		}
	}
	return out, s.err
}

func (s *fakeStore) GetRecent(limit int) ([]*models.FocusEvent, error) {
	s.limit = limit
	if len(s.events) > limit {
		return s.events[:limit], s.err
	}
	return s.events, s.err
}

func (s *fakeStore) GetLatest() (*models.FocusEvent, error) {
	if s.err != nil || len(s.events) == 0 {
		return nil, s.err
	}
	return s.events[len(s.events)-1], nil
}

type fakeBackend struct {
	snap focus.Snapshot
}

func (b fakeBackend) Query() focus.Snapshot { return b.snap }

func (b fakeBackend) Capabilities() focus.Capabilities {
	return focus.Capabilities{FocusedApplication: true, FocusedWindow: true}
}

func newTestMux(store Store) *http.ServeMux {
	snap := focus.NewSnapshot(focus.SourcePolling)
	snap.Application = &focus.FocusedApplication{DisplayName: "code"}
	snap.Window = &focus.FocusedWindow{Title: "main.go <script>"}
	snap.ConfidenceLevel = focus.ConfidenceHigh

	h := NewHandler(config.Default(), store, fakeBackend{snap: snap}, zerolog.Nop())
	mux := http.NewServeMux()
	h.SetupRoutes(mux)
	return mux
}

func get(t *testing.T, mux http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCapabilities(t *testing.T) {
	rec := get(t, newTestMux(&fakeStore{}), "/api/capabilities")
	require.Equal(t, http.StatusOK, rec.Code)

	var caps focus.Capabilities
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	assert.True(t, caps.FocusedWindow)
	assert.False(t, caps.FocusedBrowserTab)
}

func TestCurrentFocus(t *testing.T) {
	mux := newTestMux(&fakeStore{})

	rec := get(t, mux, "/api/focus/current")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"focused_application":{"display_name":"code"`)

	rec = get(t, mux, "/api/focus/current", "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "main.go &lt;script&gt;")
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestEvents(t *testing.T) {
	now := time.Now()
	store := &fakeStore{events: []*models.FocusEvent{
		{ID: 1, AppName: "code", Timestamp: now.Add(-time.Minute)},
		{ID: 2, AppName: "slack", Timestamp: now},
	}}
	mux := newTestMux(store)

	rec := get(t, mux, "/api/events?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.limit)

	var events []models.FocusEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)

	rec = get(t, mux, "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultEventLimit, store.limit)

	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/events?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/events?period=year").Code)

	rec = get(t, mux, "/api/events?period=month")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEventsEmptyIsArray(t *testing.T) {
	rec := get(t, newTestMux(&fakeStore{}), "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLatestEvent(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newTestMux(&fakeStore{}), "/api/events/latest").Code)

	store := &fakeStore{events: []*models.FocusEvent{{ID: 7, AppName: "code", Timestamp: time.Now()}}}
	rec := get(t, newTestMux(store), "/api/events/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)

	failing := &fakeStore{err: errors.New("db locked")}
	assert.Equal(t, http.StatusInternalServerError, get(t, newTestMux(failing), "/api/events/latest").Code)
}

func TestReport(t *testing.T) {
	now := time.Now()
	store := &fakeStore{events: []*models.FocusEvent{
		{AppName: "code", Timestamp: now.Add(-2 * time.Second)},
	}}
	mux := newTestMux(store)

	rec := get(t, mux, "/api/report?period=day")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "day", report.Period.Type)

	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/report?period=decade").Code)

	rec = get(t, mux, "/api/summary?period=week", "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHealthAndIndex(t *testing.T) {
	mux := newTestMux(&fakeStore{})

	rec := get(t, mux, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = get(t, mux, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Focuswatch")

	assert.Equal(t, http.StatusNotFound, get(t, mux, "/nope").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	rec := httptest.NewRecorder()
	newTestMux(&fakeStore{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
