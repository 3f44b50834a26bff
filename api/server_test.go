package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dividup/dividup/internal/config"
	"github.com/dividup/dividup/internal/pipeline"
	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

type stubData struct {
	historyErr error
}

func (s *stubData) History(ctx context.Context, ticker string, from, to time.Time, interval string) (*models.History, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	bars := []models.Bar{
		{Date: time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC), Close: 80},
		{Date: time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), Close: 90},
		{Date: time.Date(2022, time.January, 3, 0, 0, 0, 0, time.UTC), Close: 100},
	}
	dividends := []models.DividendEvent{
		{Date: time.Date(2020, time.March, 10, 0, 0, 0, 0, time.UTC), Amount: 2.00},
		{Date: time.Date(2021, time.March, 10, 0, 0, 0, 0, time.UTC), Amount: 2.10},
		{Date: time.Date(2022, time.March, 10, 0, 0, 0, 0, time.UTC), Amount: 1.10},
	}
	return &models.History{Ticker: ticker, Interval: interval, Bars: bars, Dividends: dividends}, nil
}

func (s *stubData) Statements(ctx context.Context, ticker string, model provider.ModelType) ([]models.StatementPeriod, error) {
	return nil, errors.New("statements unavailable")
}

func (s *stubData) Profile(ctx context.Context, ticker string) (*models.Profile, error) {
	return &models.Profile{Ticker: ticker, LongName: "Acme Corp"}, nil
}

func (s *stubData) News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	return nil, nil
}

func testServer(stub *stubData) *Server {
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{DefaultYears: 10, DefaultInterval: "1d", DefaultDesiredYield: 4},
		API:      config.APIConfig{Host: "127.0.0.1", Port: 8080},
	}
	pipe := pipeline.New(stub, pipeline.WithDefaults(pipeline.Defaults{
		Years:           cfg.Analysis.DefaultYears,
		Interval:        cfg.Analysis.DefaultInterval,
		DesiredYieldPct: cfg.Analysis.DefaultDesiredYield,
	}))
	return NewServer(cfg, pipe, provider.NewRegistry())
}

func doRequest(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// ════════════════════════════════════════════════════════════════════
// Endpoint tests
// ════════════════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success")
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/api/v1/analysis/acme?years=5&desired_yield=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatal("expected success")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type %T", resp.Data)
	}
	if data["ticker"] != "ACME" {
		t.Errorf("ticker = %v", data["ticker"])
	}
	// Statements are down, so the analysis carries warnings.
	if _, ok := data["warnings"]; !ok {
		t.Error("expected warnings in degraded analysis")
	}
}

func TestAnalysisBadParams(t *testing.T) {
	srv := testServer(&stubData{})
	for _, path := range []string{
		"/api/v1/analysis/acme?years=seven",
		"/api/v1/analysis/acme?years=7",
		"/api/v1/analysis/acme?interval=1h",
		"/api/v1/analysis/acme?desired_yield=abc",
	} {
		rec := doRequest(srv, http.MethodGet, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestAnalysisUpstreamDown(t *testing.T) {
	rec := doRequest(testServer(&stubData{historyErr: errors.New("upstream down")}),
		http.MethodGet, "/api/v1/analysis/acme")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("expected failure envelope")
	}
}

func TestChartEndpoint(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/api/v1/charts/acme/price")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
}

func TestChartUnknown(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/api/v1/charts/acme/sparkline")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestChartList(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/api/v1/charts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	names, ok := resp.Data.([]interface{})
	if !ok || len(names) == 0 {
		t.Errorf("chart names = %v", resp.Data)
	}
}

func TestProvidersEmptyRegistry(t *testing.T) {
	rec := doRequest(testServer(&stubData{}), http.MethodGet, "/api/v1/providers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success")
	}
}
