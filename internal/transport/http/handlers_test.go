package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wricefviz/internal/config"
	"wricefviz/internal/services"
)

func testRouter(t *testing.T) (*chi.Mux, *services.DashboardService) {
	t.Helper()

	cfg := &config.Config{
		Data: config.DataConfig{
			TrackerFile: filepath.Join(t.TempDir(), "absent.xlsx"),
			SampleSize:  50,
			Seed:        42,
		},
	}
	svc := services.NewDashboardService(cfg, nil, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	dashboard := NewDashboardHandler(svc, nil)
	health := NewHealthHandler(services.NewHealthService("test", "", cfg, svc, nil, nil), nil)
	htmlHandler, err := NewHTMLHandler(svc, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api", dashboard.Routes())
	r.Mount("/api/health", health.Routes())
	r.Get("/api/version", health.Version)
	r.Get("/charts/{name}", dashboard.GetChart)
	r.Get("/", htmlHandler.Index)
	return r, svc
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetSummary(t *testing.T) {
	router, _ := testRouter(t)

	t.Run("unfiltered", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/summary")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		insights := body["insights"].(map[string]interface{})
		assert.EqualValues(t, 50, insights["total_items"])
	})

	t.Run("filtered", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/summary?implementation=Catalyst")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		insights := body["insights"].(map[string]interface{})
		total := insights["total_items"].(float64)
		assert.Greater(t, total, 0.0)
		assert.Less(t, total, 50.0)
	})

	t.Run("invalid date", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/summary?from=not-a-date")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
	})

	t.Run("inverted range", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/summary?from=2023-06-01&to=2023-01-01")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListCharts(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/charts")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	charts := body["charts"].([]interface{})
	assert.NotEmpty(t, charts)
	first := charts[0].(map[string]interface{})
	assert.NotEmpty(t, first["name"])
	assert.NotEmpty(t, first["title"])
}

func TestGetChart(t *testing.T) {
	router, _ := testRouter(t)

	t.Run("png chart", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/charts/wricef_type_distribution")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
	})

	t.Run("html chart", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/charts/hierarchy_sunburst")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "echarts")
	})

	t.Run("filtered chart", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/charts/implementation_distribution?complexity=High")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
	})

	t.Run("unknown chart", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/charts/no_such_chart")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "CHART_NOT_FOUND")
	})
}

func TestGetTable(t *testing.T) {
	router, _ := testRouter(t)

	t.Run("all rows", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/table")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		assert.EqualValues(t, 50, body["count"])
		assert.Equal(t, "sample", body["source"])
	})

	t.Run("paged rows", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/table?offset=45&limit=10")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		assert.EqualValues(t, 5, body["count"])
		assert.EqualValues(t, 50, body["total"])
		assert.EqualValues(t, 45, body["offset"])
	})

	t.Run("bad offset", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/table?offset=-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("filtered rows", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/table?type=R")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		rows := body["rows"].([]interface{})
		assert.NotEmpty(t, rows)
		for _, raw := range rows {
			row := raw.(map[string]interface{})
			assert.Equal(t, "R", row["wricef_type"])
		}
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/table?implementation=Nonexistent")
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeJSON(t, w)
		rows, ok := body["rows"].([]interface{})
		require.True(t, ok, "rows must be a JSON array, not null")
		assert.Empty(t, rows)
		assert.EqualValues(t, 0, body["count"])
	})
}

func TestGetFacets(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/facets")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.NotEmpty(t, body["implementations"])
	assert.NotEmpty(t, body["wricef_types"])
	assert.NotEmpty(t, body["min_date"])
}

func TestReload(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/reload")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, "reloaded", body["status"])
	assert.EqualValues(t, 50, body["rows"])
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := testRouter(t)

	t.Run("liveness", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/health")
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("liveness alias", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/health/live")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readiness", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/health/ready")
		// Sample data fallback reports degraded but still ready.
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, "degraded", body["status"])
	})

	t.Run("version", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/version")
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, "test", body["version"])
		assert.EqualValues(t, 50, body["rows"])
	})
}

func TestIndexPage(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	html := w.Body.String()
	assert.Contains(t, html, "WRICEF Tracker Dashboard")
	assert.Contains(t, html, "/charts/wricef_type_distribution")
	assert.Contains(t, html, "hierarchy_sunburst")
	assert.Contains(t, html, "50 work items")
}