package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tier-sim/internal/api/handlers"
	"tier-sim/internal/api/models"
	"tier-sim/internal/config"
	"tier-sim/internal/observability"
	"tier-sim/internal/simulation"
)

func newTestRouter(t *testing.T, opts ...handlers.SimulationOption) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Simulation.TickInterval = 0

	metrics := observability.NewMetrics("test")
	router, err := NewRouter(Deps{
		Config:            cfg,
		Metrics:           metrics,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins:       []string{"*"},
		SimulationOptions: opts,
	})
	require.NoError(t, err)
	return router, metrics
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func fixedSource() simulation.Source {
	return &simulation.SequenceSource{Values: []float64{0.5}}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTiers(t *testing.T) {
	router, metrics := newTestRouter(t)
	rec := doJSON(router, http.MethodGet, "/api/v1/tiers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.TiersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tiers, 4)
	assert.Equal(t, 24, resp.DurationMonths)
	assert.Equal(t, "2010", resp.PerUnitCost.String())

	first := resp.Tiers[0]
	assert.Equal(t, 1, first.Tier)
	assert.Equal(t, "12000000", first.TotalPayout.String())
	assert.Equal(t, "7000000", first.Profit.String())
	assert.Equal(t, "2010000", first.TotalFunding.String())

	for i, tier := range resp.Tiers {
		assert.Equal(t, i+1, tier.Tier)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProjectionsTotal))
}

func TestSimulate(t *testing.T) {
	router, metrics := newTestRouter(t, handlers.WithSource(fixedSource))
	rec := doJSON(router, http.MethodPost, "/api/v1/simulate", `{"tier":1,"tick_limit":3,"include_ledger":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, 3, resp.Summary.Ticks)
	assert.Equal(t, 1000, resp.Summary.Bots)

	// Draw 0.5 gives a multiplier of exactly 1.0.
	base := 500_000.0 / simulation.MinutesPerMonth
	assert.InDelta(t, 3*1000*base, resp.Summary.RunningTotal, 1e-6)
	assert.InDelta(t, 3*base, resp.Summary.AveragePerBot, 1e-9)
	assert.Equal(t, "12000000", resp.Summary.TotalPayout.String())

	require.Len(t, resp.Ledger, 3)
	assert.Len(t, resp.Ledger[0].Sample, 8)
	assert.InDelta(t, 2*base, resp.Ledger[1].Sample[7].Earnings, 1e-9)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TicksTotal.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("1", observability.OutcomeCompleted)))
}

func TestSimulate_LedgerOmittedByDefault(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodPost, "/api/v1/simulate", `{"tier":2,"tick_limit":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"ledger"`)
}

func TestSimulate_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		code int
		err  string
	}{
		{"malformed", `{"tier":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing tier", `{}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"sample too large", `{"tier":1,"sample_size":9}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"run too long", `{"tier":1,"tick_limit":1000,"tick_interval_ms":60000}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown tier", `{"tier":42}`, http.StatusNotFound, "TIER_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodPost, "/api/v1/simulate", tc.body)
			assert.Equal(t, tc.code, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.err, resp.Error.Code)
		})
	}
}

func TestSimulate_BadDraw(t *testing.T) {
	router, metrics := newTestRouter(t, handlers.WithSource(func() simulation.Source {
		return simulation.SourceFunc(func() float64 { return 2 })
	}))
	rec := doJSON(router, http.MethodPost, "/api/v1/simulate", `{"tier":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SIMULATION_ERROR", resp.Error.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("1", observability.OutcomeFailed)))
}

func TestSimulateStream(t *testing.T) {
	router, _ := newTestRouter(t, handlers.WithSource(fixedSource))
	rec := doJSON(router, http.MethodPost, "/api/v1/simulate/stream", `{"tier":1,"tick_limit":2,"sample_size":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream"), rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event:snapshot"))
	assert.Equal(t, 1, strings.Count(body, "event:summary"))
	assert.Less(t, strings.LastIndex(body, "event:snapshot"), strings.Index(body, "event:summary"))
	assert.NotContains(t, body, "event:error")
}

func TestSimulateStream_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodPost, "/api/v1/simulate/stream", `{"tier":99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(router, http.MethodGet, "/api/v1/tiers", "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_projection_tables_total 1")
}
