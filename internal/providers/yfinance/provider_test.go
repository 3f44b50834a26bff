package yfinance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dividup/dividup/internal/infra"
	"github.com/dividup/dividup/internal/provider"
)

func TestNewRegistersAllModels(t *testing.T) {
	p := New()

	want := []provider.ModelType{
		provider.ModelEquityHistorical,
		provider.ModelEquityProfile,
		provider.ModelBalanceSheet,
		provider.ModelIncomeStatement,
		provider.ModelCashFlowStatement,
		provider.ModelCompanyNews,
	}
	for _, m := range want {
		if p.Fetcher(m) == nil {
			t.Errorf("no fetcher registered for %s", m)
		}
	}
	if got := len(p.SupportedModels()); got != len(want) {
		t.Errorf("supported models = %d, want %d", got, len(want))
	}
}

func TestYfValUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		raw   float64
		valid bool
	}{
		{"object", `{"raw": 12.5, "fmt": "12.50"}`, 12.5, true},
		{"empty object", `{}`, 0, false},
		{"bare number", `3.14`, 3.14, true},
		{"null", `null`, 0, false},
		{"string", `"n/a"`, 0, false},
	}
	for _, tt := range tests {
		var v yfVal
		if err := json.Unmarshal([]byte(tt.input), &v); err != nil {
			t.Errorf("%s: unmarshal: %v", tt.name, err)
			continue
		}
		if v.Valid != tt.valid || v.Raw != tt.raw {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tt.name, v.Raw, v.Valid, tt.raw, tt.valid)
		}
	}
}

func TestFetchJSONUnauthorizedRetry(t *testing.T) {
	tests := []struct {
		name         string
		fallbackCode int
		wantErr      bool
		wantFallback bool
	}{
		{"second host recovers", http.StatusOK, false, true},
		{"second host also rejects", http.StatusUnauthorized, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer primary.Close()

			var fallbackHit bool
			fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fallbackHit = true
				if tt.fallbackCode != http.StatusOK {
					w.WriteHeader(tt.fallbackCode)
					return
				}
				w.Write([]byte(`{"value": 42}`))
			}))
			defer fallback.Close()

			origBase, origRetry := baseURL, retryURL
			baseURL, retryURL = primary.URL, fallback.URL
			defer func() { baseURL, retryURL = origBase, origRetry }()

			var dest struct {
				Value int `json:"value"`
			}
			err := fetchJSON(context.Background(), baseURL+"/v8/finance/chart/KO", &dest)

			if fallbackHit != tt.wantFallback {
				t.Errorf("fallback hit = %v, want %v", fallbackHit, tt.wantFallback)
			}
			if tt.wantErr {
				if !infra.IsStatus(err, http.StatusUnauthorized) {
					t.Fatalf("err = %v, want 401 status error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("fetchJSON: %v", err)
			}
			if dest.Value != 42 {
				t.Errorf("decoded value = %d, want 42", dest.Value)
			}
		})
	}
}

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "KO", "currency": "USD", "regularMarketPrice": 62.5},
      "timestamp": [1672617600, 1672704000, 1672790400],
      "events": {
        "dividends": {
          "1672704000": {"amount": 0.46, "date": 1672704000}
        }
      },
      "indicators": {
        "quote": [{
          "open":   [60.1, 60.5, null],
          "high":   [60.9, 61.2, null],
          "low":    [59.8, 60.1, null],
          "close":  [60.5, 61.0, null],
          "volume": [1000, 1100, null]
        }]
      }
    }],
    "error": null
  }
}`

func TestParseHistory(t *testing.T) {
	var resp yfChartResponse
	if err := json.Unmarshal([]byte(chartFixture), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	if len(resp.Chart.Result) != 1 {
		t.Fatalf("got %d results", len(resp.Chart.Result))
	}

	h := parseHistory("KO", "1d", resp.Chart.Result[0])

	// The third bar has a null close and must be dropped.
	if len(h.Bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(h.Bars))
	}
	if h.Bars[0].Close != 60.5 || h.Bars[1].Close != 61.0 {
		t.Errorf("closes = %v, %v", h.Bars[0].Close, h.Bars[1].Close)
	}
	if h.Bars[0].Volume != 1000 {
		t.Errorf("volume = %d", h.Bars[0].Volume)
	}

	if len(h.Dividends) != 1 {
		t.Fatalf("got %d dividends, want 1", len(h.Dividends))
	}
	if h.Dividends[0].Amount != 0.46 {
		t.Errorf("dividend amount = %v", h.Dividends[0].Amount)
	}
}

const quoteSummaryFixture = `{
  "quoteSummary": {
    "result": [{
      "balanceSheetHistory": {
        "balanceSheetStatements": [
          {
            "endDate": {"raw": 1672444800, "fmt": "2022-12-31"},
            "maxAge": 1,
            "totalAssets": {"raw": 92763000000},
            "totalLiab": {"raw": 66937000000},
            "totalStockholderEquity": {"raw": 25826000000},
            "cash": {"raw": 9519000000}
          },
          {
            "endDate": {"raw": 1640908800, "fmt": "2021-12-31"},
            "totalAssets": {"raw": 94354000000},
            "totalLiab": {"raw": 69494000000},
            "totalStockholderEquity": {"raw": 24860000000}
          }
        ]
      },
      "assetProfile": {
        "sector": "Consumer Defensive",
        "industry": "Beverages - Non-Alcoholic",
        "website": "https://www.coca-colacompany.com",
        "longBusinessSummary": "The Coca-Cola Company, a beverage company..."
      },
      "summaryDetail": {
        "marketCap": {"raw": 270000000000},
        "dividendRate": {"raw": 1.84},
        "payoutRatio": {"raw": 0.73},
        "trailingPE": {"raw": 27.1},
        "currency": "USD"
      },
      "defaultKeyStatistics": {
        "sharesOutstanding": {"raw": 4325000000},
        "priceToBook": {"raw": 10.4},
        "trailingEps": {"raw": 2.28}
      },
      "financialData": {
        "currentPrice": {"raw": 62.5},
        "returnOnEquity": {"raw": 0.398},
        "totalDebt": {"raw": 42000000000}
      },
      "price": {
        "longName": "The Coca-Cola Company",
        "currency": "USD",
        "regularMarketPrice": {"raw": 62.5},
        "marketCap": {"raw": 270000000000}
      }
    }],
    "error": null
  }
}`

func TestParseStatements(t *testing.T) {
	var resp yfQuoteSummaryResponse
	if err := json.Unmarshal([]byte(quoteSummaryFixture), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	raw := statementsFor(provider.ModelBalanceSheet, resp.QuoteSummary.Result[0])
	periods := parseStatements(raw)

	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(periods))
	}
	if periods[0].EndDate.Year() != 2022 {
		t.Errorf("first period year = %d, want 2022", periods[0].EndDate.Year())
	}
	if got := periods[0].Items["totalAssets"]; got != 92763000000 {
		t.Errorf("totalAssets = %v", got)
	}
	if _, ok := periods[0].Items["endDate"]; ok {
		t.Error("endDate leaked into line items")
	}
	if _, ok := periods[0].Items["maxAge"]; ok {
		t.Error("maxAge leaked into line items")
	}
}

func TestBuildProfile(t *testing.T) {
	var resp yfQuoteSummaryResponse
	if err := json.Unmarshal([]byte(quoteSummaryFixture), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	p := buildProfile("KO", resp.QuoteSummary.Result[0])

	if p.Ticker != "KO" {
		t.Errorf("ticker = %q", p.Ticker)
	}
	if p.LongName != "The Coca-Cola Company" {
		t.Errorf("long name = %q", p.LongName)
	}
	if p.Sector != "Consumer Defensive" {
		t.Errorf("sector = %q", p.Sector)
	}
	if p.CurrentPrice == nil || *p.CurrentPrice != 62.5 {
		t.Errorf("current price = %v", p.CurrentPrice)
	}
	if p.DividendRate == nil || *p.DividendRate != 1.84 {
		t.Errorf("dividend rate = %v", p.DividendRate)
	}
	if p.ReturnOnEquity == nil || *p.ReturnOnEquity != 0.398 {
		t.Errorf("roe = %v", p.ReturnOnEquity)
	}
	if p.SharesOutstanding == nil || *p.SharesOutstanding != 4325000000 {
		t.Errorf("shares = %v", p.SharesOutstanding)
	}
}

func TestBuildProfileEmptyModules(t *testing.T) {
	p := buildProfile("XYZ", yfQuoteSummaryResult{})
	if p.Ticker != "XYZ" || p.LongName != "XYZ" {
		t.Errorf("profile = %+v", p)
	}
	if p.CurrentPrice != nil {
		t.Error("expected nil current price")
	}
}

func TestParseFeed(t *testing.T) {
	now := time.Now()
	feed := &gofeed.Feed{
		Title: "Yahoo Finance",
		Items: []*gofeed.Item{
			{Title: "First", Link: "https://example.com/1", PublishedParsed: &now},
			{Title: "Second", Link: "https://example.com/2"},
			{Title: "Third", Link: "https://example.com/3"},
		},
	}

	items := parseFeed(feed, 2)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "First" || items[0].Source != "Yahoo Finance" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[0].Published.IsZero() {
		t.Error("published date lost")
	}
	if !items[1].Published.IsZero() {
		t.Error("missing published date should stay zero")
	}
}
