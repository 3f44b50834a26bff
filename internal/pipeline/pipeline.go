// Package pipeline orchestrates one analysis request end to end: fetch,
// normalize, derive, assemble. It owns the request contract and the error
// taxonomy; all calculation lives in the analysis packages and all I/O in
// the datasource layer.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/singleflight"

	"github.com/dividup/dividup/internal/analysis/dividend"
	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// AllowedYears are the selectable history windows, in years.
var AllowedYears = []int{5, 10, 15, 20}

// MarketData is the data dependency of the pipeline, satisfied by
// datasource.Service. Tests substitute stubs.
type MarketData interface {
	History(ctx context.Context, ticker string, from, to time.Time, interval string) (*models.History, error)
	Statements(ctx context.Context, ticker string, model provider.ModelType) ([]models.StatementPeriod, error)
	Profile(ctx context.Context, ticker string) (*models.Profile, error)
	News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error)
}

// LogoResolver finds a company logo URL from its profile. Optional; a nil
// resolver leaves LogoURL empty.
type LogoResolver interface {
	Resolve(ctx context.Context, p *models.Profile) string
}

// Request is one analysis request.
type Request struct {
	Ticker          string
	Years           int     // history window, one of AllowedYears
	Interval        string  // "1d" or "1mo"
	DesiredYieldPct float64 // target dividend yield for the price target
}

// Defaults fill unset request fields.
type Defaults struct {
	Years           int
	Interval        string
	DesiredYieldPct float64
}

// Normalize applies defaults and canonicalizes the ticker, then validates.
func (r *Request) Normalize(d Defaults) error {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	if r.Years == 0 {
		r.Years = d.Years
	}
	if r.Interval == "" {
		r.Interval = d.Interval
	}
	if r.DesiredYieldPct == 0 {
		r.DesiredYieldPct = d.DesiredYieldPct
	}

	if r.Ticker == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidRequest)
	}
	validYears := false
	for _, y := range AllowedYears {
		if r.Years == y {
			validYears = true
			break
		}
	}
	if !validYears {
		return fmt.Errorf("%w: years must be one of %v, got %d", ErrInvalidRequest, AllowedYears, r.Years)
	}
	if r.Interval != "1d" && r.Interval != "1mo" {
		return fmt.Errorf("%w: interval must be 1d or 1mo, got %q", ErrInvalidRequest, r.Interval)
	}
	if r.DesiredYieldPct <= 0 || r.DesiredYieldPct > 100 {
		return fmt.Errorf("%w: desired yield must be in (0, 100], got %v", ErrInvalidRequest, r.DesiredYieldPct)
	}
	return nil
}

func (r Request) key() string {
	return fmt.Sprintf("%s|%d|%s|%g", r.Ticker, r.Years, r.Interval, r.DesiredYieldPct)
}

// Pipeline runs analysis requests. Identical concurrent requests are
// collapsed into a single upstream fetch.
type Pipeline struct {
	data     MarketData
	logos    LogoResolver
	defaults Defaults
	newsN    int
	group    singleflight.Group
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogoResolver attaches a logo resolver.
func WithLogoResolver(lr LogoResolver) Option {
	return func(p *Pipeline) { p.logos = lr }
}

// WithDefaults overrides the request defaults.
func WithDefaults(d Defaults) Option {
	return func(p *Pipeline) { p.defaults = d }
}

// WithNewsLimit sets how many headlines are fetched per request.
func WithNewsLimit(n int) Option {
	return func(p *Pipeline) { p.newsN = n }
}

// withClock fixes the pipeline clock, for tests.
func withClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline on top of a market data source.
func New(data MarketData, opts ...Option) *Pipeline {
	p := &Pipeline{
		data:     data,
		defaults: Defaults{Years: 10, Interval: "1d", DesiredYieldPct: 4},
		newsN:    10,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one analysis request. Price history is the hard dependency:
// its absence returns a FatalDataError. Every other input degrades the
// result and leaves a warning on it.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.Analysis, error) {
	if err := req.Normalize(p.defaults); err != nil {
		return nil, err
	}

	v, err, shared := p.group.Do(req.key(), func() (any, error) {
		return p.run(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("ticker", req.Ticker).Msg("collapsed duplicate analysis request")
	}
	return v.(*models.Analysis), nil
}

func (p *Pipeline) run(ctx context.Context, req Request) (*models.Analysis, error) {
	started := p.now()
	to := started
	from := to.AddDate(-req.Years, 0, 0)

	var warnings []string

	history, err := p.data.History(ctx, req.Ticker, from, to, req.Interval)
	if err != nil {
		return nil, &FatalDataError{Ticker: req.Ticker, Err: err}
	}

	prices, err := series.NormalizePrices(history.Bars)
	if err != nil {
		return nil, &FatalDataError{Ticker: req.Ticker, Err: err}
	}
	dividends := series.NormalizeDividends(history.Dividends)

	profile := p.fetchProfile(ctx, req.Ticker, &warnings)

	balance := p.fetchStatements(ctx, req.Ticker, provider.ModelBalanceSheet, &warnings)
	income := p.fetchStatements(ctx, req.Ticker, provider.ModelIncomeStatement, &warnings)
	cashflow := p.fetchStatements(ctx, req.Ticker, provider.ModelCashFlowStatement, &warnings)

	news := p.fetchNews(ctx, req.Ticker)

	if p.logos != nil && profile.LogoURL == "" {
		profile.LogoURL = p.logos.Resolve(ctx, profile)
	}

	result := dividend.Analyze(dividend.Dataset{
		Profile:   *profile,
		Prices:    prices,
		Dividends: dividends,
		Balance:   balance,
		Income:    income,
		CashFlow:  cashflow,
		News:      news,
	}, dividend.Params{
		DesiredYieldPct: req.DesiredYieldPct,
		Now:             started,
	})
	result.Warnings = dedupe(append(warnings, result.Warnings...))

	log.Info().
		Str("ticker", req.Ticker).
		Int("years", req.Years).
		Str("interval", req.Interval).
		Int("bars", prices.Len()).
		Dur("elapsed", p.now().Sub(started)).
		Msg("analysis complete")

	return result, nil
}

// fetchProfile degrades to a minimal profile built from the request when the
// provider fails; the engine then falls back to the last close for price.
func (p *Pipeline) fetchProfile(ctx context.Context, ticker string, warnings *[]string) *models.Profile {
	profile, err := p.data.Profile(ctx, ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("profile fetch failed")
		*warnings = append(*warnings, "company profile unavailable")
		return &models.Profile{Ticker: ticker, LongName: ticker}
	}
	return profile
}

func (p *Pipeline) fetchStatements(ctx context.Context, ticker string, model provider.ModelType, warnings *[]string) series.StatementSnapshot {
	periods, err := p.data.Statements(ctx, ticker, model)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Str("model", string(model)).Msg("statement fetch failed")
		*warnings = append(*warnings, fmt.Sprintf("%s unavailable", statementLabel(model)))
		return series.StatementSnapshot{}
	}
	return series.NormalizeStatement(periods)
}

// fetchNews is best-effort: a dashboard without headlines is not degraded
// enough to warn about.
func (p *Pipeline) fetchNews(ctx context.Context, ticker string) []models.NewsItem {
	items, err := p.data.News(ctx, ticker, p.newsN)
	if err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("news fetch failed")
		return nil
	}
	return items
}

// dedupe keeps the first occurrence of each warning. The engine repeats the
// "unavailable" warnings the fetch layer already emitted for failed sources.
func dedupe(warnings []string) []string {
	seen := make(map[string]bool, len(warnings))
	out := warnings[:0]
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func statementLabel(model provider.ModelType) string {
	switch model {
	case provider.ModelBalanceSheet:
		return "balance sheet"
	case provider.ModelIncomeStatement:
		return "income statement"
	case provider.ModelCashFlowStatement:
		return "cash flow statement"
	default:
		return string(model)
	}
}
