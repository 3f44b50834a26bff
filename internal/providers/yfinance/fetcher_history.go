package yfinance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

// historyFetcher serves ModelEquityHistorical: price bars plus dividend
// events from the v8 chart endpoint.
type historyFetcher struct {
	provider.BaseFetcher
	ttl time.Duration
}

func newHistoryFetcher(ttl time.Duration) *historyFetcher {
	return &historyFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelEquityHistorical,
			"Historical price bars and dividend events from Yahoo Finance",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamStartDate, provider.ParamEndDate, provider.ParamInterval},
			ttl, 5, time.Second,
		),
		ttl: ttl,
	}
}

func (f *historyFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	startDate, endDate := dateRange(params)

	interval := params[provider.ParamInterval]
	if interval == "" {
		interval = "1d"
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return &provider.FetchResult{Data: cached, FetchedAt: time.Now(), Cached: true}, nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		baseURL+"/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&events=div",
		symbol, startDate.Unix(), endDate.Unix(), interval,
	)

	var resp yfChartResponse
	if err := fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for %s", symbol)
	}

	history := parseHistory(symbol, interval, resp.Chart.Result[0])
	f.CacheSetTTL(cacheKey, history, f.ttl)
	return &provider.FetchResult{Data: history, FetchedAt: time.Now()}, nil
}

// parseHistory converts one chart result into a History. Bars with a missing
// close are skipped; dividend events are sorted by date since Yahoo keys
// them by timestamp in map order.
func parseHistory(symbol, interval string, result yfChartResult) *models.History {
	h := &models.History{Ticker: symbol, Interval: interval}

	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		for i, ts := range result.Timestamp {
			if i >= len(q.Close) || q.Close[i] == nil {
				continue
			}
			bar := models.Bar{
				Date:  time.Unix(ts, 0).UTC(),
				Close: *q.Close[i],
			}
			if i < len(q.Open) && q.Open[i] != nil {
				bar.Open = *q.Open[i]
			}
			if i < len(q.High) && q.High[i] != nil {
				bar.High = *q.High[i]
			}
			if i < len(q.Low) && q.Low[i] != nil {
				bar.Low = *q.Low[i]
			}
			if i < len(q.Volume) && q.Volume[i] != nil {
				bar.Volume = *q.Volume[i]
			}
			h.Bars = append(h.Bars, bar)
		}
	}

	for _, d := range result.Events.Dividends {
		if d.Amount <= 0 {
			continue
		}
		h.Dividends = append(h.Dividends, models.DividendEvent{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(h.Dividends, func(i, j int) bool {
		return h.Dividends[i].Date.Before(h.Dividends[j].Date)
	})

	return h
}

// dateRange parses start_date/end_date from params, defaulting to the last
// five years.
func dateRange(params provider.QueryParams) (time.Time, time.Time) {
	now := time.Now()
	endDate := now
	startDate := now.AddDate(-5, 0, 0)

	if s := params[provider.ParamStartDate]; s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			startDate = t
		}
	}
	if s := params[provider.ParamEndDate]; s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			endDate = t
		}
	}
	return startDate, endDate
}
