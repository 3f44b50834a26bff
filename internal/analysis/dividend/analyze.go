package dividend

import (
	"time"

	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// Dataset is everything Analyze needs, already fetched and normalized. The
// engine never performs I/O: the pipeline assembles a Dataset and hands it
// over.
type Dataset struct {
	Profile   models.Profile
	Prices    series.PriceSeries     // close series at the requested interval
	Dividends series.FinancialSeries // annual dividend sums
	Balance   series.StatementSnapshot
	Income    series.StatementSnapshot
	CashFlow  series.StatementSnapshot
	News      []models.NewsItem
}

// Params are the user-tunable knobs of a single analysis.
type Params struct {
	DesiredYieldPct float64
	Now             time.Time
}

// Analyze derives the complete dashboard result from a Dataset. Prices are
// the only hard requirement (the pipeline rejects empty price series before
// calling here); every other gap degrades the affected section and leaves a
// warning instead of failing the whole request.
func Analyze(ds Dataset, p Params) *models.Analysis {
	if p.Now.IsZero() {
		p.Now = time.Now()
	}

	out := &models.Analysis{
		Ticker:      ds.Profile.Ticker,
		Profile:     ds.Profile,
		News:        ds.News,
		GeneratedAt: p.Now,
	}
	warn := func(msg string) { out.Warnings = append(out.Warnings, msg) }

	prices := ds.Prices
	annual := ds.Dividends
	if !prices.Empty() {
		annual = annual.Restrict(prices.FirstYear(), prices.LastYear())
	}

	currentPrice := series.FromPtr(ds.Profile.CurrentPrice)
	if !currentPrice.IsSome() && !prices.Empty() {
		currentPrice = series.Some(prices.Last().Close)
	}

	// Price charts.
	out.Price = models.TimeSeries{Dates: prices.Dates(), Values: prices.Closes()}
	out.Drawdown = Drawdown(prices)

	// Dividend history and yield envelope.
	out.AnnualDividends = yearSeries(annual)
	yieldHist, avgYield, maxYield, minYield := YieldHistory(prices, annual)
	out.YieldHistory = yieldHist
	if annual.Empty() {
		warn("no dividend history in the selected window")
	}

	cagr := DividendCAGRPct(annual)
	out.Weiss = Weiss(prices, annual)
	if out.Weiss == nil {
		warn("not enough dividend history for the yield-band valuation (need three full years)")
	}

	// Headline scalars.
	rate := series.FromPtr(ds.Profile.DividendRate)
	payout := series.FromPtr(ds.Profile.PayoutRatio)
	roe := series.FromPtr(ds.Profile.ReturnOnEquity)
	eps := series.FromPtr(ds.Profile.TrailingEPS)
	pb := series.FromPtr(ds.Profile.PriceToBook)
	marketCap := series.FromPtr(ds.Profile.MarketCap)

	shares := series.FromPtr(ds.Profile.SharesOutstanding)
	if !shares.IsSome() {
		if fs, ok := ds.Balance.Resolve(aliasOrdinaryShares...); ok {
			shares = fs.LatestValue()
		}
	}
	equity := series.None()
	if fs, ok := ds.Balance.Resolve(aliasTotalEquity...); ok {
		equity = fs.LatestValue()
	}
	preferred := series.None()
	if fs, ok := ds.Balance.Resolve(aliasPreferredShares...); ok {
		preferred = fs.LatestValue()
	}

	bvps := BookValuePerShare(equity, preferred, shares)
	g := SustainableGrowthPct(roe, payout)
	multiple := GrowthMultiple(g)
	eps5y := ProjectedEPS(eps, g)
	fairPrice := FairPriceAtMultiple(eps5y, multiple)
	fairPB := pb.Mul(bvps)

	out.Headline = models.Headline{
		CurrentPrice:         currentPrice.Ptr(),
		DividendRate:         rate.Ptr(),
		DividendYieldPct:     Yield(rate, currentPrice).Ptr(),
		TrailingPE:           ds.Profile.TrailingPE,
		PayoutPct:            payout.Scale(100).Ptr(),
		TrailingEPS:          eps.Ptr(),
		DividendCAGRPct:      cagr.Ptr(),
		PriceToBook:          pb.Ptr(),
		BookValuePerShare:    bvps.Ptr(),
		SustainableGrowthPct: g.Ptr(),
		GrowthMultiple:       multiple.Ptr(),
		ProjectedEPS5Y:       eps5y.Ptr(),
		ProjectedFairPrice:   fairPrice.Ptr(),
		ImpliedGrowthPct:     ImpliedGrowthPct(fairPrice, currentPrice).Ptr(),
		FairPricePB:          fairPB.Ptr(),
		TotalReturnPct:       TotalReturnPct(prices).Ptr(),
		AnnualReturnPct:      AnnualReturnPct(prices).Ptr(),
		AvgYieldPct:          avgYield.Ptr(),
		MaxYieldPct:          maxYield.Ptr(),
		MinYieldPct:          minYield.Ptr(),
	}

	// Fundamental tables.
	out.Ratios = Ratios(ds.Balance, ds.Income, prices.YearlyLastClose())
	out.Enterprise = EnterpriseTable(ds.Balance, ds.Income, marketCap)
	out.Sustainability = SustainabilityTable(ds.CashFlow)
	out.DebtEvolution = DebtTable(ds.Balance, ds.CashFlow)
	out.PERHistory = PERTable(ds.Income, prices)
	out.Margins = MarginsTable(ds.Income)
	out.Balance = BalanceTable(ds.Balance)
	out.CashFlows = CashFlowTable(ds.CashFlow)
	out.SharesHistory = SharesSeries(ds.Balance)

	if ds.Balance.Empty() {
		warn("balance sheet unavailable")
	}
	if ds.Income.Empty() {
		warn("income statement unavailable")
	}
	if ds.CashFlow.Empty() {
		warn("cash flow statement unavailable")
	}

	var weissUnder *float64
	if out.Weiss != nil {
		weissUnder = out.Weiss.UndervaluedPrice
	}
	// The quoted forward rate is the current dividend when the profile has
	// one; otherwise fall back to the last complete annual sum.
	currentDividend := rate
	if !currentDividend.IsSome() {
		currentDividend = lastFullDividend(annual)
	}
	out.Targets = models.Targets{
		DesiredYieldPct:     p.DesiredYieldPct,
		DividendTargetPrice: TargetDividendPrice(currentDividend, cagr, p.DesiredYieldPct).Ptr(),
		WeissUndervalued:    weissUnder,
		FairPricePB:         fairPB.Ptr(),
		ProjectedFairPrice:  fairPrice.Ptr(),
	}

	return out
}

// lastFullDividend is the most recent complete annual sum: the penultimate
// year when at least two exist, since the final year is still accumulating.
func lastFullDividend(annual series.FinancialSeries) series.Value {
	years := annual.Years()
	if len(years) >= 2 {
		return annual.At(years[len(years)-2])
	}
	return annual.LatestValue()
}

func yearSeries(fs series.FinancialSeries) models.YearSeries {
	years := fs.Years()
	out := models.YearSeries{Years: years, Values: make([]*float64, len(years))}
	for i, y := range years {
		out.Values[i] = fs.At(y).Ptr()
	}
	return out
}
