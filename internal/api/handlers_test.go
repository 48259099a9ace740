package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/query"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	rows := []dataset.Row{
		{OriginLon: -75.5657, OriginLat: 6.2080, DestLon: -75.5660, DestLat: 6.2090, Name: "seg1", LengthM: 120, RiskScore: 0.3, CombinedCost: 0.4, IncidentsCount: 1},
		{OriginLon: -75.5660, OriginLat: 6.2090, DestLon: -75.5676, DestLat: 6.2528, Name: "seg2", LengthM: 4800, RiskScore: 0.2, CombinedCost: 0.3, IncidentsCount: 0},
	}
	g := graphcore.BuildFromRows(rows)
	engine := query.NewEngine(g)
	return NewHandler(engine, false)
}

func newTestApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/route", h.Route)
	app.Get("/compare", h.Compare)
	return app
}

func TestHealth(t *testing.T) {
	app := newTestApp(testHandler(t))
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRoute_HappyPath(t *testing.T) {
	app := newTestApp(testHandler(t))
	req := httptest.NewRequest("GET", "/route?origin_lon=-75.5657&origin_lat=6.2080&dest_lon=-75.5676&dest_lat=6.2528&optimization=combined&algorithm=dijkstra", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var fc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
	features, ok := fc["features"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, features)
}

func TestRoute_InvalidCoordinate(t *testing.T) {
	app := newTestApp(testHandler(t))
	req := httptest.NewRequest("GET", "/route?origin_lon=200&origin_lat=6.2080&dest_lon=-75.5676&dest_lat=6.2528", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCompare_ReturnsOneRoutePerAlgorithm(t *testing.T) {
	app := newTestApp(testHandler(t))
	req := httptest.NewRequest("GET", "/compare?origin_lon=-75.5657&origin_lat=6.2080&dest_lon=-75.5676&dest_lat=6.2528&optimization=distance&algorithms=dijkstra,astar", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Comparison", body["type"])
	routes, ok := body["routes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, routes, 2)
}
