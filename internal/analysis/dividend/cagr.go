package dividend

import "github.com/dividup/dividup/internal/series"

// DividendCAGRPct computes the compound annual growth rate of the annual
// dividend series, in percent. The caller passes the series already
// restricted to the price-history window.
//
// Policy, kept from the original dashboard: at least three annual points are
// required (two points do not make a trend), and the endpoints are the first
// and the second-to-last value — the last year is excluded because it may be
// a partial year still accumulating payments. The year span runs from the
// first year to the penultimate year.
func DividendCAGRPct(annual series.FinancialSeries) series.Value {
	years := annual.Years()
	if len(years) < 3 {
		return series.None()
	}

	firstYear := years[0]
	penYear := years[len(years)-2]
	span := penYear - firstYear
	if span <= 0 {
		return series.None()
	}

	first, ok := annual.At(firstYear).Float()
	if !ok || first <= 0 {
		return series.None()
	}
	pen, ok := annual.At(penYear).Float()
	if !ok || pen <= 0 {
		return series.None()
	}

	ratio := series.Some(pen / first)
	return series.Pow(ratio, 1/float64(span)).Sub(series.Some(1)).Scale(100)
}
