package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

// statementFetcher serves one of the three statement models from the v10
// quoteSummary endpoint. The same fetcher type handles all three; only the
// requested module and the container it unpacks differ.
type statementFetcher struct {
	provider.BaseFetcher
	module string
	ttl    time.Duration
}

var statementModules = map[provider.ModelType]string{
	provider.ModelBalanceSheet:      "balanceSheetHistory",
	provider.ModelIncomeStatement:   "incomeStatementHistory",
	provider.ModelCashFlowStatement: "cashflowStatementHistory",
}

func newStatementFetcher(model provider.ModelType, ttl time.Duration) *statementFetcher {
	return &statementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			model,
			"Annual "+statementModules[model]+" from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			ttl, 5, time.Second,
		),
		module: statementModules[model],
		ttl:    ttl,
	}
}

func (f *statementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return &provider.FetchResult{Data: cached, FetchedAt: time.Now(), Cached: true}, nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		baseURL+"/v10/finance/quoteSummary/%s?modules=%s",
		symbol, f.module,
	)

	var resp yfQuoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance %s %s: %w", f.module, symbol, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no %s for %s", f.module, symbol)
	}

	periods := parseStatements(statementsFor(f.ModelType(), resp.QuoteSummary.Result[0]))
	f.CacheSetTTL(cacheKey, periods, f.ttl)
	return &provider.FetchResult{Data: periods, FetchedAt: time.Now()}, nil
}

func statementsFor(model provider.ModelType, r yfQuoteSummaryResult) []yfStatement {
	switch model {
	case provider.ModelBalanceSheet:
		if r.BalanceSheetHistory != nil {
			return r.BalanceSheetHistory.Statements
		}
	case provider.ModelIncomeStatement:
		if r.IncomeStatementHistory != nil {
			return r.IncomeStatementHistory.Statements
		}
	case provider.ModelCashFlowStatement:
		if r.CashflowStatementHistory != nil {
			return r.CashflowStatementHistory.Statements
		}
	}
	return nil
}

// parseStatements converts raw statement maps into StatementPeriods, keeping
// the provider's own camelCase line-item names. endDate and maxAge are
// envelope fields, not line items.
func parseStatements(raw []yfStatement) []models.StatementPeriod {
	periods := make([]models.StatementPeriod, 0, len(raw))
	for _, stmt := range raw {
		end, ok := stmt["endDate"]
		if !ok || !end.Valid {
			continue
		}
		p := models.StatementPeriod{
			EndDate: time.Unix(int64(end.Raw), 0).UTC(),
			Items:   make(map[string]float64, len(stmt)),
		}
		for name, val := range stmt {
			if name == "endDate" || name == "maxAge" || !val.Valid {
				continue
			}
			p.Items[name] = val.Raw
		}
		periods = append(periods, p)
	}
	return periods
}
