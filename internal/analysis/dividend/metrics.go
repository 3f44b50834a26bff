// Package dividend is the metric engine: pure, stateless derivations of
// valuation and fundamental-health metrics from normalized series. Every
// function follows the same contract — optional inputs, optional output,
// absent if and only if the formula is undefined or a required input is
// missing. Nothing here raises for ordinary data gaps, and nothing mutates
// its inputs, so the engine is safe to call concurrently across tickers.
package dividend

import (
	"time"

	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// Yield is the current dividend yield in percent: rate / price * 100.
func Yield(rate, price series.Value) series.Value {
	return series.SafeDiv(rate, price).Scale(100)
}

// BookValuePerShare is (total equity - preferred) / shares outstanding.
// Preferred equity defaults to zero when the line item is unavailable, per
// the dashboard's long-standing convention.
func BookValuePerShare(totalEquity, preferred, shares series.Value) series.Value {
	if !totalEquity.IsSome() {
		return series.None()
	}
	adj := series.Some(totalEquity.Or(0) - preferred.Or(0))
	return series.SafeDiv(adj, shares)
}

// SustainableGrowthPct is the retention growth rate G = ROE * (1 - payout),
// in percent. ROE and payout are fractions as the provider reports them.
func SustainableGrowthPct(roe, payout series.Value) series.Value {
	if !roe.IsSome() || !payout.IsSome() {
		return series.None()
	}
	r, _ := roe.Float()
	p, _ := payout.Float()
	return series.Some(r * (1 - p) * 100)
}

// GrowthMultiple maps the sustainable growth rate to an earnings multiple
// tier. The step function is inclusive on the lower tier: G% of exactly 10
// stays at x10 and exactly 20 stays at x15.
func GrowthMultiple(gPct series.Value) series.Value {
	g, ok := gPct.Float()
	if !ok {
		return series.None()
	}
	switch {
	case g <= 10:
		return series.Some(10)
	case g <= 20:
		return series.Some(15)
	default:
		return series.Some(20)
	}
}

// ProjectedEPS compounds trailing EPS five years forward at G%.
func ProjectedEPS(eps, gPct series.Value) series.Value {
	g, ok := gPct.Float()
	if !ok {
		return series.None()
	}
	return eps.Mul(series.Pow(series.Some(1+g/100), 5))
}

// FairPriceAtMultiple is the five-year projected price: eps5y * multiple.
func FairPriceAtMultiple(eps5y, multiple series.Value) series.Value {
	return eps5y.Mul(multiple)
}

// ImpliedGrowthPct is the annualized return implied by reaching the
// projected fair price from the current price over five years, in percent.
func ImpliedGrowthPct(fairPrice, price series.Value) series.Value {
	ratio := series.SafeDiv(fairPrice, price)
	if !ratio.IsSome() {
		return series.None()
	}
	if v, _ := ratio.Float(); v <= 0 {
		return series.None()
	}
	return series.Pow(ratio, 1.0/5).Sub(series.Some(1)).Scale(100)
}

// TargetDividendPrice is the price at which next year's extrapolated
// dividend would yield the user's desired percentage:
// dividend * (1 + CAGR/100) / (desiredYield/100).
func TargetDividendPrice(dividend, cagrPct series.Value, desiredYieldPct float64) series.Value {
	if desiredYieldPct <= 0 {
		return series.None()
	}
	c, ok := cagrPct.Float()
	if !ok {
		return series.None()
	}
	next := dividend.Scale(1 + c/100)
	return series.SafeDiv(next, series.Some(desiredYieldPct/100))
}

// TotalReturnPct is the price-only return over the whole window, in percent.
func TotalReturnPct(prices series.PriceSeries) series.Value {
	if prices.Len() < 2 {
		return series.None()
	}
	return series.SafeDiv(series.Some(prices.Last().Close), series.Some(prices.First().Close)).
		Sub(series.Some(1)).Scale(100)
}

// AnnualReturnPct annualizes the window return using the actual day span.
func AnnualReturnPct(prices series.PriceSeries) series.Value {
	if prices.Len() < 2 {
		return series.None()
	}
	years := prices.Last().Date.Sub(prices.First().Date).Hours() / 24 / 365.25
	if years <= 0 {
		return series.None()
	}
	ratio := series.SafeDiv(series.Some(prices.Last().Close), series.Some(prices.First().Close))
	if v, ok := ratio.Float(); !ok || v <= 0 {
		return series.None()
	}
	return series.Pow(ratio, 1/years).Sub(series.Some(1)).Scale(100)
}

// Drawdown is the running decline from the running maximum, in percent
// (zero at new highs, negative in between).
func Drawdown(prices series.PriceSeries) models.TimeSeries {
	out := models.TimeSeries{
		Dates:  make([]time.Time, 0, prices.Len()),
		Values: make([]float64, 0, prices.Len()),
	}
	runningMax := 0.0
	for i := 0; i < prices.Len(); i++ {
		pt := prices.At(i)
		if pt.Close > runningMax {
			runningMax = pt.Close
		}
		out.Dates = append(out.Dates, pt.Date)
		out.Values = append(out.Values, (pt.Close/runningMax-1)*100)
	}
	return out
}
