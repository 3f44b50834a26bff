package models

import "time"

// Output contract for the presentation layer. Every numeric that can be
// missing is a *float64: nil means "unavailable", and is rendered as JSON
// null rather than NaN or zero.

// TimeSeries is a dense date-indexed series (price, drawdown, yield).
type TimeSeries struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// Len returns the number of points.
func (t TimeSeries) Len() int { return len(t.Dates) }

// YearSeries is a sparse year-indexed series with optional values.
type YearSeries struct {
	Years  []int      `json:"years"`
	Values []*float64 `json:"values"`
}

// TableRow is one named row of a per-year table.
type TableRow struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// YearTable is a per-year table: one column per fiscal year, one row per
// derived quantity.
type YearTable struct {
	Years []int      `json:"years"`
	Rows  []TableRow `json:"rows"`
}

// Row returns the named row, or nil.
func (t YearTable) Row(name string) *TableRow {
	for i := range t.Rows {
		if t.Rows[i].Name == name {
			return &t.Rows[i]
		}
	}
	return nil
}

// RatioRow is one row of the ratio table, tagged with its DuPont-style
// category (liquidity, leverage, efficiency, profitability, other).
type RatioRow struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Values   []*float64 `json:"values"`
}

// RatioTable is the per-year fundamental ratio table.
type RatioTable struct {
	Years []int      `json:"years"`
	Rows  []RatioRow `json:"rows"`
}

// Headline holds the scalar metrics shown at the top of the dashboard.
type Headline struct {
	CurrentPrice         *float64 `json:"current_price"`
	DividendRate         *float64 `json:"dividend_rate"`
	DividendYieldPct     *float64 `json:"dividend_yield_pct"`
	TrailingPE           *float64 `json:"trailing_pe"`
	PayoutPct            *float64 `json:"payout_pct"`
	TrailingEPS          *float64 `json:"trailing_eps"`
	DividendCAGRPct      *float64 `json:"dividend_cagr_pct"`
	PriceToBook          *float64 `json:"price_to_book"`
	BookValuePerShare    *float64 `json:"book_value_per_share"`
	SustainableGrowthPct *float64 `json:"sustainable_growth_pct"`
	GrowthMultiple       *float64 `json:"growth_multiple"`
	ProjectedEPS5Y       *float64 `json:"projected_eps_5y"`
	ProjectedFairPrice   *float64 `json:"projected_fair_price"`
	ImpliedGrowthPct     *float64 `json:"implied_growth_pct"`
	FairPricePB          *float64 `json:"fair_price_pb"`
	TotalReturnPct       *float64 `json:"total_return_pct"`
	AnnualReturnPct      *float64 `json:"annual_return_pct"`
	AvgYieldPct          *float64 `json:"avg_yield_pct"`
	MaxYieldPct          *float64 `json:"max_yield_pct"`
	MinYieldPct          *float64 `json:"min_yield_pct"`
}

// WeissMonth is one month-end row of the Geraldine Weiss worksheet.
type WeissMonth struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	AnnualDividend *float64  `json:"annual_dividend"`
	Yield          *float64  `json:"yield"`
	Overvalued     *float64  `json:"overvalued"`
	Undervalued    *float64  `json:"undervalued"`
}

// WeissBands is the Geraldine Weiss yield-band valuation result. The step
// series are piecewise-constant price bands meant to be plotted over the
// daily close series.
type WeissBands struct {
	CAGRPct          *float64     `json:"cagr_pct"`
	OverallYieldMin  *float64     `json:"overall_yield_min"`
	OverallYieldMax  *float64     `json:"overall_yield_max"`
	LastDividend     *float64     `json:"last_dividend"`
	OvervaluedPrice  *float64     `json:"overvalued_price"`
	UndervaluedPrice *float64     `json:"undervalued_price"`
	Monthly          []WeissMonth `json:"monthly"`
	StepOvervalued   TimeSeries   `json:"step_overvalued"`
	StepUndervalued  TimeSeries   `json:"step_undervalued"`
}

// Targets holds the projected fair-price variants, including the only
// user-parameterized one (desired dividend yield).
type Targets struct {
	DesiredYieldPct     float64  `json:"desired_yield_pct"`
	DividendTargetPrice *float64 `json:"dividend_target_price"`
	WeissUndervalued    *float64 `json:"weiss_undervalued"`
	FairPricePB         *float64 `json:"fair_price_pb"`
	ProjectedFairPrice  *float64 `json:"projected_fair_price"`
}

// Analysis is the complete per-request result handed to the presentation
// layer. It is assembled once per (ticker, period, interval, desired-yield)
// request and never persisted.
type Analysis struct {
	Ticker  string  `json:"ticker"`
	Profile Profile `json:"profile"`

	Headline Headline `json:"headline"`

	Price           TimeSeries `json:"price"`
	Drawdown        TimeSeries `json:"drawdown"`
	YieldHistory    TimeSeries `json:"yield_history"`
	AnnualDividends YearSeries `json:"annual_dividends"`

	Weiss *WeissBands `json:"weiss,omitempty"`

	Ratios         RatioTable `json:"ratios"`
	Enterprise     YearTable  `json:"enterprise"`
	Sustainability YearTable  `json:"sustainability"`
	DebtEvolution  YearTable  `json:"debt_evolution"`
	PERHistory     YearTable  `json:"per_history"`
	Margins        YearTable  `json:"margins"`
	Balance        YearTable  `json:"balance"`
	CashFlows      YearTable  `json:"cash_flows"`
	SharesHistory  YearSeries `json:"shares_history"`

	Targets Targets `json:"targets"`

	News     []NewsItem `json:"news,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}
