package yfinance

import (
	"context"
	"fmt"
	"time"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

// profileFetcher serves ModelEquityProfile from quoteSummary's profile and
// statistics modules.
type profileFetcher struct {
	provider.BaseFetcher
}

func newProfileFetcher() *profileFetcher {
	return &profileFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityProfile,
			"Company profile and headline statistics from Yahoo Finance",
			[]string{provider.ParamSymbol},
			nil,
			1*time.Hour, 5, time.Second,
		),
	}
}

func (f *profileFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return &provider.FetchResult{Data: cached, FetchedAt: time.Now(), Cached: true}, nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	modules := "assetProfile,summaryDetail,defaultKeyStatistics,financialData,price"
	url := fmt.Sprintf(
		baseURL+"/v10/finance/quoteSummary/%s?modules=%s",
		symbol, modules,
	)

	var resp yfQuoteSummaryResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance profile %s: %w", symbol, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no profile for %s", symbol)
	}

	profile := buildProfile(symbol, resp.QuoteSummary.Result[0])
	f.CacheSetTTL(cacheKey, profile, 1*time.Hour)
	return &provider.FetchResult{Data: profile, FetchedAt: time.Now()}, nil
}

// buildProfile assembles a Profile from the quoteSummary modules. Each
// module is optional; a symbol with no assetProfile still yields prices and
// statistics.
func buildProfile(symbol string, r yfQuoteSummaryResult) *models.Profile {
	p := &models.Profile{Ticker: symbol}

	if ap := r.AssetProfile; ap != nil {
		p.Sector = ap.Sector
		p.Industry = ap.Industry
		p.Website = ap.Website
		p.Summary = ap.LongBusinessSummary
	}

	if pr := r.Price; pr != nil {
		p.LongName = coalesce(pr.LongName, pr.ShortName, symbol)
		p.Currency = pr.Currency
		p.CurrentPrice = pr.RegularMarketPrice.Ptr()
		p.MarketCap = pr.MarketCap.Ptr()
	}

	if sd := r.SummaryDetail; sd != nil {
		p.DividendRate = sd.DividendRate.Ptr()
		p.PayoutRatio = sd.PayoutRatio.Ptr()
		p.TrailingPE = sd.TrailingPE.Ptr()
		if p.Currency == "" {
			p.Currency = sd.Currency
		}
		if p.MarketCap == nil {
			p.MarketCap = sd.MarketCap.Ptr()
		}
	}

	if ks := r.DefaultKeyStatistics; ks != nil {
		p.SharesOutstanding = ks.SharesOutstanding.Ptr()
		p.PriceToBook = ks.PriceToBook.Ptr()
		p.TrailingEPS = ks.TrailingEps.Ptr()
	}

	if fd := r.FinancialData; fd != nil {
		p.ReturnOnEquity = fd.ReturnOnEquity.Ptr()
		if p.CurrentPrice == nil {
			p.CurrentPrice = fd.CurrentPrice.Ptr()
		}
	}

	if p.LongName == "" {
		p.LongName = symbol
	}
	return p
}
