package dividend

import (
	"time"

	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// Weiss builds the Geraldine Weiss yield-band valuation: the historical
// dividend yield envelope, and the "overvalued" / "undervalued" price bands
// it implies for every year of the window.
//
// The worksheet is monthly: the daily close series is resampled to month
// ends, and each month's yield is the annual dividend of that calendar year
// divided by the month-end price. The dividend of the final (partial) year
// is not the sum actually paid so far but the previous year's dividend grown
// by the dividend CAGR, so the last months are not biased toward absurd
// yields. The band prices divide each year's dividend by the overall minimum
// yield (overvalued: the price at which the stock has historically been most
// expensive relative to its dividend) and the overall maximum yield
// (undervalued).
//
// Returns nil when the inputs cannot support the worksheet: fewer than three
// annual dividend points, no computable CAGR, or no usable monthly yields.
func Weiss(prices series.PriceSeries, annual series.FinancialSeries) *models.WeissBands {
	if prices.Empty() {
		return nil
	}
	cagr := DividendCAGRPct(annual)
	if !cagr.IsSome() {
		return nil
	}

	adjusted := adjustedAnnualDividends(annual, cagr, prices.LastYear())

	monthly := prices.ResampleMonthly()
	rows := make([]models.WeissMonth, 0, monthly.Len())
	var (
		yieldMin = series.None()
		yieldMax = series.None()
	)
	for i := 0; i < monthly.Len(); i++ {
		pt := monthly.At(i)
		div := adjusted.At(pt.Date.Year())
		y := series.SafeDiv(div, series.Some(pt.Close))
		rows = append(rows, models.WeissMonth{
			Date:           pt.Date,
			Price:          pt.Close,
			AnnualDividend: div.Ptr(),
			Yield:          y.Ptr(),
		})
		if yv, ok := y.Float(); ok && yv > 0 {
			if mn, ok := yieldMin.Float(); !ok || yv < mn {
				yieldMin = series.Some(yv)
			}
			if mx, ok := yieldMax.Float(); !ok || yv > mx {
				yieldMax = series.Some(yv)
			}
		}
	}
	if !yieldMin.IsSome() || !yieldMax.IsSome() {
		return nil
	}

	for i := range rows {
		div := series.FromPtr(rows[i].AnnualDividend)
		rows[i].Overvalued = series.SafeDiv(div, yieldMin).Ptr()
		rows[i].Undervalued = series.SafeDiv(div, yieldMax).Ptr()
	}

	lastDiv := adjusted.At(prices.LastYear())

	bands := &models.WeissBands{
		CAGRPct:          cagr.Ptr(),
		OverallYieldMin:  yieldMin.Ptr(),
		OverallYieldMax:  yieldMax.Ptr(),
		LastDividend:     lastDiv.Ptr(),
		OvervaluedPrice:  series.SafeDiv(lastDiv, yieldMin).Ptr(),
		UndervaluedPrice: series.SafeDiv(lastDiv, yieldMax).Ptr(),
		Monthly:          rows,
		StepOvervalued:   stepSeries(adjusted, yieldMin, prices),
		StepUndervalued:  stepSeries(adjusted, yieldMax, prices),
	}
	return bands
}

// adjustedAnnualDividends copies the annual sums and replaces the final
// (partial) year with the previous year's dividend grown by the CAGR.
func adjustedAnnualDividends(annual series.FinancialSeries, cagrPct series.Value, lastYear int) series.FinancialSeries {
	points := make(map[int]series.Value)
	for _, y := range annual.Years() {
		points[y] = annual.At(y)
	}
	g, _ := cagrPct.Float()
	if prev := annual.At(lastYear - 1); prev.IsSome() {
		points[lastYear] = prev.Scale(1 + g/100)
	}
	return series.MakeFinancialSeries(points)
}

// stepSeries draws one piecewise-constant band over the daily date range:
// for each year, a flat segment at dividend/yield from January 1st (clamped
// to the first observation) to the next January 1st (clamped to the last
// observation).
func stepSeries(adjusted series.FinancialSeries, yield series.Value, prices series.PriceSeries) models.TimeSeries {
	var out models.TimeSeries
	first := prices.First().Date
	last := prices.Last().Date
	for y := first.Year(); y <= last.Year(); y++ {
		level, ok := series.SafeDiv(adjusted.At(y), yield).Float()
		if !ok {
			continue
		}
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		if start.Before(first) {
			start = first
		}
		end := time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		if end.After(last) {
			end = last
		}
		if !start.Before(end) {
			continue
		}
		out.Dates = append(out.Dates, start, end)
		out.Values = append(out.Values, level, level)
	}
	return out
}
