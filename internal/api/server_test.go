package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit-search/internal/gtfs"
	"transit-search/internal/search"
	"transit-search/internal/store"
)

func newTestServer() *Server {
	m := store.NewMemory(
		[]gtfs.Stop{
			{ID: "S1", Name: "Harbour", Lat: 0, Lon: 0},
			{ID: "S2", Name: "Station", Lat: 1, Lon: 0},
		},
		[]gtfs.Route{{ID: "R1", ShortName: "1"}},
		[]gtfs.Trip{{ID: "T1", RouteID: "R1", ServiceID: "WD"}},
		[]gtfs.Calendar{{
			ServiceID: "WD", StartDate: "20260101", EndDate: "20261231",
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
		}},
		nil,
		[]gtfs.StopTime{
			{TripID: "T1", StopID: "S1", StopSequence: 1, ArrivalSec: gtfs.ParseDaySeconds("08:05:00"), DepartureSec: gtfs.ParseDaySeconds("08:05:00")},
			{TripID: "T1", StopID: "S2", StopSequence: 2, ArrivalSec: gtfs.ParseDaySeconds("08:15:00"), DepartureSec: gtfs.ParseDaySeconds("08:15:00")},
		},
	)
	engine := search.New(m, search.DefaultParams(), time.UTC, nil)
	return NewServer(engine, nil)
}

func TestSearchJourneyEndpoint(t *testing.T) {
	app := newTestServer().App()

	body, _ := json.Marshal(search.Request{
		OriginStopID: "S1",
		DestStopID:   "S2",
		When:         time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC), // a Monday
		IsDeparture:  true,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/journey/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out search.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	require.NotNil(t, out.Journey)
	assert.Equal(t, "08:05:00", out.Journey.DepartureTime)
	assert.Equal(t, 0, out.Journey.TransferCount)
}

func TestSearchJourneyBadInput(t *testing.T) {
	app := newTestServer().App()

	body, _ := json.Marshal(search.Request{
		OriginStopID: "S1",
		DestStopID:   "S1",
		When:         time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
		IsDeparture:  true,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/journey/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNearestStopEndpoint(t *testing.T) {
	app := newTestServer().App()

	req := httptest.NewRequest(http.MethodGet, "/v1/stops/nearest?lat=0.1&lon=0.0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stop search.StopSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stop))
	assert.Equal(t, "S1", stop.ID)
}

func TestNearestStopEndpointBadCoords(t *testing.T) {
	app := newTestServer().App()

	req := httptest.NewRequest(http.MethodGet, "/v1/stops/nearest?lat=x&lon=0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestServer().App()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
