// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public APIs (v8 chart, v10 quoteSummary, RSS
// headlines) into the standard provider/fetcher framework.
//
// Yahoo Finance is a free, no-API-key provider that covers equities
// worldwide, including the dividend events and statement history this
// dashboard is built around.
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dividup/dividup/internal/infra"
	"github.com/dividup/dividup/internal/provider"
)

const providerName = "yfinance"

// Cache lifetimes: quotes move intraday, statements change once a year.
const (
	defaultQuoteTTL     = 15 * time.Minute
	defaultStatementTTL = 6 * time.Hour
)

// Yahoo serves the same API from two query hosts. Requests go to baseURL
// first; a 401 is retried once against retryURL without headers, which
// usually lands on an edge that accepts the session. Vars so tests can
// point them at a local server.
var (
	baseURL  = "https://query1.finance.yahoo.com"
	retryURL = "https://query2.finance.yahoo.com"
)

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
}

// New creates a new Yahoo Finance provider with default cache lifetimes.
func New() *Provider {
	return NewWithTTLs(defaultQuoteTTL, defaultStatementTTL)
}

// NewWithTTLs creates a Yahoo Finance provider with explicit cache
// lifetimes for quote data and statement data.
func NewWithTTLs(quoteTTL, statementTTL time.Duration) *Provider {
	if quoteTTL <= 0 {
		quoteTTL = defaultQuoteTTL
	}
	if statementTTL <= 0 {
		statementTTL = defaultStatementTTL
	}
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - free global financial data",
			"https://finance.yahoo.com",
		),
	}

	p.RegisterFetcher(newHistoryFetcher(quoteTTL))
	p.RegisterFetcher(newProfileFetcher())
	p.RegisterFetcher(newStatementFetcher(provider.ModelBalanceSheet, statementTTL))
	p.RegisterFetcher(newStatementFetcher(provider.ModelIncomeStatement, statementTTL))
	p.RegisterFetcher(newStatementFetcher(provider.ModelCashFlowStatement, statementTTL))
	p.RegisterFetcher(newNewsFetcher())

	return p
}

// Ping checks connectivity to Yahoo Finance.
func (p *Provider) Ping(ctx context.Context) error {
	url := baseURL + "/v8/finance/chart/AAPL?range=1d&interval=1d"
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetchJSON performs a GET request and decodes the response into dest.
// Yahoo intermittently rejects sessions with a 401 depending on which edge
// handles the request; a single plain retry against the second host
// recovers it.
func fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, jsonHeaders())
	if infra.IsStatus(err, http.StatusUnauthorized) {
		retry := strings.Replace(url, baseURL, retryURL, 1)
		body, _, err = infra.DoGet(ctx, retry, nil)
	}
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
